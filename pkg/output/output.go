package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rg0now/next-migration-survey/pkg/models"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
)

// Formats lists the accepted values of the --format flag.
var Formats = []string{FormatText, FormatJSON, FormatJSONL, FormatYAML}

// ValidFormat reports whether f names a supported output format.
func ValidFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Writer handles output of analysis and transform results.
type Writer struct {
	file   *os.File
	writer io.Writer
	format string
}

// NewWriter creates a new output writer. An empty path or "-" writes to
// stdout; an empty format means text.
func NewWriter(path, format string) (*Writer, error) {
	if format == "" {
		format = FormatText
	}
	if !ValidFormat(format) {
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	if path == "" || path == "-" {
		return &Writer{
			writer: os.Stdout,
			format: format,
		}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		file:   file,
		writer: file,
		format: format,
	}, nil
}

// NewStreamWriter wraps an existing stream.
func NewStreamWriter(w io.Writer, format string) *Writer {
	if format == "" {
		format = FormatText
	}
	return &Writer{writer: w, format: format}
}

// Format returns the writer's output format.
func (w *Writer) Format() string {
	return w.format
}

// WriteValue encodes v in the writer's structured format. Text output
// falls back to YAML, which is the most readable of the three.
func (w *Writer) WriteValue(v any) error {
	switch w.format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		return w.writeLine(data)
	case FormatJSONL:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		return w.writeLine(data)
	default:
		enc := yaml.NewEncoder(w.writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return enc.Close()
	}
}

// WriteAnalysis writes the aggregate result of one run.
func (w *Writer) WriteAnalysis(a *models.SystemAnalysis) error {
	if w.format == FormatText {
		PrintAnalysis(w.writer, a)
		return nil
	}
	return w.WriteValue(a)
}

// WriteReport writes a single file report as a JSON line, regardless of
// the writer's format.
func (w *Writer) WriteReport(r models.FileReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal file report: %w", err)
	}
	return w.writeLine(data)
}

// WriteReports writes multiple file reports as JSON lines.
func (w *Writer) WriteReports(reports []models.FileReport) error {
	for _, r := range reports {
		if err := w.WriteReport(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteTransform writes the engine output for one file. Text output lists
// the applied changes and warnings; the structured formats carry the code.
func (w *Writer) WriteTransform(r models.TransformResult) error {
	if w.format == FormatText {
		PrintTransform(w.writer, r)
		return nil
	}
	return w.WriteValue(r)
}

// Close closes the output file if it was opened.
func (w *Writer) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *Writer) writeLine(data []byte) error {
	if _, err := fmt.Fprintf(w.writer, "%s\n", data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Summary represents hotspot statistics over a set of file reports.
type Summary struct {
	TotalFiles       int                 `json:"total_files" yaml:"total_files"`
	ByClassification map[string]int      `json:"by_classification" yaml:"by_classification"`
	SignalFrequency  map[string]int      `json:"signal_frequency" yaml:"signal_frequency"`
	AverageScore     float64             `json:"average_score" yaml:"average_score"`
	Top              []models.FileReport `json:"top,omitempty" yaml:"top,omitempty"`
}

// GenerateSummary generates a summary from a list of file reports.
func GenerateSummary(reports []models.FileReport, topN int) Summary {
	summary := Summary{
		TotalFiles:       len(reports),
		ByClassification: make(map[string]int),
		SignalFrequency:  make(map[string]int),
	}

	totalScore := 0
	for _, r := range reports {
		summary.ByClassification[r.Classification]++
		totalScore += r.Score

		for _, sig := range r.Signals {
			summary.SignalFrequency[sig.Type]++
		}
	}

	if len(reports) > 0 {
		summary.AverageScore = float64(totalScore) / float64(len(reports))
	}

	if topN > 0 {
		summary.Top = topByScore(reports, topN)
	}

	return summary
}

// topByScore returns the n highest-scoring reports, ties by path.
func topByScore(reports []models.FileReport, n int) []models.FileReport {
	sorted := make([]models.FileReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Path < sorted[j].Path
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// classOrder is the display order of file classifications.
var classOrder = []string{models.FilePortable, models.FileLight, models.FileHeavy, models.FileRewrite}
