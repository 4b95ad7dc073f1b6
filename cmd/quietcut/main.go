package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/linuxmatters/quietcut/internal/cli"
	"github.com/linuxmatters/quietcut/internal/config"
	"github.com/linuxmatters/quietcut/internal/logging"
	"github.com/linuxmatters/quietcut/internal/processor"
	"github.com/linuxmatters/quietcut/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Config  string `short:"c" type:"existingfile" help:"Path to TOML config file (optional)"`
	Logs    bool   `help:"Save a trim report beside each output"`
	Debug   bool   `help:"Write a debug log to ${debuglog}"`

	Percentile *int     `short:"p" group:"detection" placeholder:"1-99" help:"Percentile of positive samples used as the silence threshold"`
	MinSilence *float64 `short:"m" group:"detection" name:"min-silence" placeholder:"secs" help:"Shortest quiet run to cut"`
	Margin     *float64 `group:"detection" placeholder:"secs" help:"Audio kept at each edge of a cut"`

	Output  string  `short:"o" group:"io" placeholder:"path" help:"Output file, or directory for several inputs"`
	Workers *int    `short:"j" group:"io" placeholder:"n" help:"Concurrent ffmpeg clip cuts for video"`
	FFmpeg  *string `name:"ffmpeg" group:"io" placeholder:"binary" help:"ffmpeg binary to run"`

	Files []string `arg:"" name:"files" help:"Audio or video files to trim" type:"existingfile" optional:""`
}

// apply overlays flags that were given on top of cfg
func (c *CLI) apply(cfg *config.Config) {
	if c.Percentile != nil {
		cfg.Percentile = *c.Percentile
	}
	if c.MinSilence != nil {
		cfg.MinSilence = *c.MinSilence
	}
	if c.Margin != nil {
		cfg.Margin = *c.Margin
	}
	if c.Workers != nil {
		cfg.Workers = *c.Workers
	}
	if c.FFmpeg != nil {
		cfg.FFmpeg = *c.FFmpeg
	}
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("quietcut"),
		kong.Description("Cut the silences out of audio and video recordings"),
		kong.UsageOnError(),
		cli.Groups(),
		kong.Vars{
			"version":  version,
			"debuglog": logging.DebugLogFile,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(os.Stdout, version)
		os.Exit(0)
	}

	if len(cliArgs.Files) == 0 {
		cli.PrintError(os.Stderr, "No input files specified")
		_ = ctx.PrintUsage(false)
		os.Exit(1)
	}

	cfg, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
	cliArgs.apply(cfg)
	if err := cfg.Validate(); err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
	if len(cliArgs.Files) > 1 && cliArgs.Output != "" {
		if info, err := os.Stat(cliArgs.Output); err != nil || !info.IsDir() {
			cli.PrintError(os.Stderr, "--output must be an existing directory when trimming several files")
			os.Exit(1)
		}
	}

	log, err := logging.NewLogger(cliArgs.Debug, logging.DebugLogFile)
	if err != nil {
		cli.PrintError(os.Stderr, fmt.Sprintf("debug log: %v", err))
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Infow("starting", "version", version, "files", len(cliArgs.Files),
		"percentile", cfg.Percentile, "min_silence", cfg.MinSilence, "margin", cfg.Margin,
		"workers", cfg.Workers, "ffmpeg", cfg.FFmpeg)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := ui.NewModel(cliArgs.Files)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go processFiles(runCtx, p, cfg, cliArgs, log)

	final, err := p.Run()
	// Stops in-flight ffmpeg cuts when the user quits early.
	cancel()
	if err != nil {
		cli.PrintError(os.Stderr, fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}

	m, _ := final.(ui.Model)
	if m.Quit {
		cli.PrintError(os.Stderr, "Interrupted")
		os.Exit(130)
	}
	if m.FailedFiles > 0 {
		for _, f := range m.Files {
			if f.Error != nil {
				cli.PrintError(os.Stderr, fmt.Sprintf("%s: %v", f.InputPath, f.Error))
			}
		}
		os.Exit(1)
	}
}

// processFiles trims each input in turn, reporting to the TUI. A failed
// file does not stop the batch.
func processFiles(ctx context.Context, p *tea.Program, cfg *config.Config, cliArgs *CLI, log *zap.SugaredLogger) {
	for i, inputPath := range cliArgs.Files {
		if ctx.Err() != nil {
			return
		}
		fileStart := time.Now()
		p.Send(ui.FileStartMsg{FileIndex: i, FileName: inputPath})

		result, err := processor.Run(ctx, cfg, inputPath, cliArgs.Output, log, func(stage processor.Stage, progress float64) {
			p.Send(ui.ProgressMsg{Stage: stage, Progress: progress})
		})
		if err != nil {
			log.Errorw("trim failed", "input", inputPath, "error", err)
			p.Send(ui.FileCompleteMsg{FileIndex: i, Error: err})
			continue
		}

		if cliArgs.Logs {
			report := logging.ReportData{
				StartTime: fileStart,
				EndTime:   time.Now(),
				Config:    cfg,
				Result:    result,
			}
			if err := logging.GenerateReport(report); err != nil {
				log.Warnw("failed to write trim report", "output", result.OutputPath, "error", err)
			}
		}

		p.Send(ui.FileCompleteMsg{FileIndex: i, Result: result})
	}

	p.Send(ui.AllCompleteMsg{})
}
