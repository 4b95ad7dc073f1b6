// Package logging handles debug logging and the trim reports written
// alongside processed files

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/quietcut/internal/config"
	"github.com/linuxmatters/quietcut/internal/media"
	"github.com/linuxmatters/quietcut/internal/processor"
	"github.com/linuxmatters/quietcut/internal/silence"
)

// ReportData contains all the information needed to generate a trim report
type ReportData struct {
	StartTime time.Time
	EndTime   time.Time
	Config    *config.Config
	Result    *processor.Result
}

// ReportPath returns the report filename for an output file:
// episode-trimmed.wav → episode-trimmed-trim.log
func ReportPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "-trim.log"
}

// GenerateReport writes the trim report beside the output file.
func GenerateReport(data ReportData) error {
	if data.Result == nil {
		return fmt.Errorf("no result to report")
	}

	f, err := os.Create(ReportPath(data.Result.OutputPath))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	WriteReport(f, data)
	return nil
}

// WriteReport renders the report:
// 1. Header - file info and timestamp
// 2. Processing Summary - timing
// 3. Detection - parameters and estimated threshold
// 4. Input/Output comparison table
// 5. Kept segments with time ranges
func WriteReport(w io.Writer, data ReportData) {
	r := data.Result

	fmt.Fprintln(w, "quietcut Trim Report")
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "File: %s\n", filepath.Base(r.InputPath))
	fmt.Fprintf(w, "Output: %s\n", filepath.Base(r.OutputPath))
	fmt.Fprintf(w, "Run: %s\n", r.RunID)
	fmt.Fprintf(w, "Processed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Format: %d Hz, %s, %d-bit %s\n", r.Format.SampleRate, channelName(r.Format.Channels),
		r.Format.BitDepth, r.Format.Encoding)
	fmt.Fprintln(w, "")

	writeSection(w, "Processing Summary")
	total := data.EndTime.Sub(data.StartTime)
	fmt.Fprintf(w, "Total: %s", formatDuration(total))
	if in := r.InputDuration(); in > 0 && total > 0 {
		fmt.Fprintf(w, " (%.0fx real-time)", in/total.Seconds())
	}
	fmt.Fprintln(w, "")
	mode := "audio re-assembly"
	if r.Video {
		mode = fmt.Sprintf("video cut and join (%d clips)", len(r.Clips))
	}
	fmt.Fprintf(w, "Mode: %s\n", mode)
	fmt.Fprintln(w, "")

	writeSection(w, "Detection")
	if data.Config != nil {
		fmt.Fprintf(w, "Percentile:  %d\n", data.Config.Percentile)
		fmt.Fprintf(w, "Min silence: %.3fs\n", data.Config.MinSilence)
		fmt.Fprintf(w, "Margin:      %.3fs\n", data.Config.Margin)
	}
	fmt.Fprintf(w, "Threshold:   %s\n", formatMetric(r.Threshold, thresholdDecimals(r)))
	fmt.Fprintf(w, "Silences:    %d\n", len(r.Silences))
	fmt.Fprintln(w, "")

	writeSection(w, "Input vs Output")
	table := NewMetricTable("Input", "Output")
	table.AddMetricRow("Duration", []float64{r.InputDuration(), r.OutputDuration()}, 2, "s", "")
	table.AddRow("Samples", []string{fmt.Sprint(r.TotalSamples), fmt.Sprint(r.KeptSamples)}, "", "")
	table.AddRow("Segments", []string{"1", fmt.Sprint(len(r.Keeps))}, "", "")
	removedPct := 0.0
	if r.TotalSamples > 0 {
		removedPct = 100 * float64(r.TotalSamples-r.KeptSamples) / float64(r.TotalSamples)
	}
	table.AddRow("Removed", []string{"", formatMetric(r.RemovedDuration(), 2)}, "s",
		fmt.Sprintf("%.1f%% of input", removedPct))
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")

	writeSection(w, "Kept Segments")
	rate := r.Format.SampleRate
	for i, k := range r.Keeps {
		start := silence.SamplesToSeconds(k.Start, rate)
		stop := silence.SamplesToSeconds(k.Stop, rate)
		fmt.Fprintf(w, "#%-4d %10.3fs -> %10.3fs  (%.3fs)\n", i+1, start, stop, stop-start)
	}
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// Float thresholds live in [0,1] and need more precision than integer PCM.
func thresholdDecimals(r *processor.Result) int {
	if r.Format.Encoding == media.EncodingFloat {
		return 6
	}
	return 0
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// channelName returns a human-readable channel name
func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}
