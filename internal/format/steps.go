package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"stepline/internal/procgraph"
)

// StepHeader is the column set of the step output.
var StepHeader = []string{"Role", "previous_value", "Object Name", "next_value", "Application_system"}

// Sequence is one source's steps, as rendered in consolidated output.
type Sequence struct {
	Source       string           `json:"source"`
	RunID        string           `json:"run_id,omitempty"`
	Steps        []procgraph.Step `json:"steps"`
	Applications []string         `json:"applications,omitempty"`
}

// WriteSteps renders steps in mode m.
func WriteSteps(w io.Writer, m Mode, steps []procgraph.Step) error {
	if m == JSON {
		return writeJSON(w, steps)
	}
	tb := NewTable(m)
	tb.Header(StepHeader...)
	for _, s := range steps {
		tb.Row(stepCells(s, m)...)
	}
	if m == ASCII {
		tb.Columns(
			ColumnConfig{Number: 2, MaxWidth: 40},
			ColumnConfig{Number: 4, MaxWidth: 40},
		)
	}
	return writeString(w, tb.String())
}

// WriteSequences renders several sources as one consolidated table with
// the source as the first column. Empty sequences are left out.
func WriteSequences(w io.Writer, m Mode, seqs []Sequence) error {
	var kept []Sequence
	for _, s := range seqs {
		if len(s.Steps) > 0 {
			kept = append(kept, s)
		}
	}
	if m == JSON {
		return writeJSON(w, kept)
	}
	tb := NewTable(m)
	tb.Header(append([]string{"Source", "#"}, StepHeader...)...)
	total := 0
	for _, seq := range kept {
		for i, s := range seq.Steps {
			tb.Row(append([]any{seq.Source, i + 1}, stepCells(s, m)...)...)
		}
		total += len(seq.Steps)
	}
	tb.Footer("TOTAL", total)
	return writeString(w, tb.String())
}

// WriteApplications renders the per-source application summary.
func WriteApplications(w io.Writer, m Mode, seqs []Sequence) error {
	if m == JSON {
		return writeJSON(w, seqs)
	}
	tb := NewTable(m)
	tb.Header("Source", "Steps", "Applications")
	for _, seq := range seqs {
		tb.Row(seq.Source, len(seq.Steps), joinLines(seq.Applications, m))
	}
	tb.Columns(ColumnConfig{Number: 2, Align: AlignRight})
	return writeString(w, tb.String())
}

func stepCells(s procgraph.Step, m Mode) []any {
	prev, next := s.Previous, s.Next
	if m == ASCII {
		prev = Multi(prev, procgraph.Separator)
		next = Multi(next, procgraph.Separator)
	}
	return []any{s.Role, prev, s.ObjectName, next, s.ApplicationSystem}
}

func joinLines(vals []string, m Mode) string {
	sep := ", "
	if m == ASCII {
		sep = "\n"
	}
	return strings.Join(vals, sep)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("format: encode json: %w", err)
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if s != "" && s[len(s)-1] != '\n' {
		s += "\n"
	}
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("format: write: %w", err)
	}
	return nil
}
