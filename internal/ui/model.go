// Package ui provides the Bubbletea terminal user interface for quietcut
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/quietcut/internal/processor"
)

// Spinner frames for stages without fine-grained progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// FileStatus represents the processing state of a single file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusActive
	StatusComplete
	StatusError
)

// FileProgress tracks progress for a single media file
type FileProgress struct {
	InputPath string
	Status    FileStatus

	Stage     processor.Stage
	Progress  float64 // 0.0 to 1.0
	StartTime time.Time
	Elapsed   time.Duration

	Result *processor.Result
	Error  error
}

// Model is the Bubbletea model for the processing UI
type Model struct {
	Files          []FileProgress
	CurrentIndex   int
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	StartTime time.Time
	Done      bool
	// Quit is set when the user interrupts before all files finish
	Quit bool

	spinnerIndex int

	Width  int
	Height int
}

// NewModel creates a new UI model with the given input files
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}

	return Model{
		Files:        files,
		CurrentIndex: -1, // No file processing yet
		TotalFiles:   len(inputFiles),
		StartTime:    time.Now(),
	}
}

// Init starts the spinner. Processing messages arrive through
// tea.Program.Send.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if m.Done {
			return m, nil
		}
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		if f := m.current(); f != nil && f.Status == StatusActive {
			f.Elapsed = time.Since(f.StartTime)
		}
		return m, tickCmd()

	case ProgressMsg:
		if f := m.current(); f != nil {
			f.Stage = msg.Stage
			f.Progress = msg.Progress
			f.Elapsed = time.Since(f.StartTime)
		}
		return m, nil

	case FileStartMsg:
		if msg.FileIndex < 0 || msg.FileIndex >= len(m.Files) {
			return m, nil
		}
		m.CurrentIndex = msg.FileIndex
		f := m.current()
		f.Status = StatusActive
		f.Stage = processor.StageDecoding
		f.Progress = 0
		f.StartTime = time.Now()
		return m, nil

	case FileCompleteMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			f := &m.Files[msg.FileIndex]
			f.Result = msg.Result
			f.Error = msg.Error
			f.Elapsed = time.Since(f.StartTime)
			if msg.Error != nil {
				f.Status = StatusError
				m.FailedFiles++
			} else {
				f.Status = StatusComplete
				f.Progress = 1
				m.CompletedFiles++
			}
		}
		return m, nil

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}
	if m.Done {
		return renderCompletionSummary(m)
	}
	return renderProcessingView(m)
}

func (m *Model) current() *FileProgress {
	if m.CurrentIndex < 0 || m.CurrentIndex >= len(m.Files) {
		return nil
	}
	return &m.Files[m.CurrentIndex]
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
