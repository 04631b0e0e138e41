package procgraph

import (
	"context"
	"fmt"
	"log/slog"
)

// Diagnostic codes emitted by the pipeline stages.
const (
	CodeNoStart             = "no-start"
	CodeMultipleStarts      = "multiple-starts"
	CodeBlockSkipped        = "block-skipped"
	CodeRoleOwnerMissing    = "role-owner-missing"
	CodeRuleUnresolved      = "rule-unresolved"
	CodeStepBudgetExhausted = "step-budget-exhausted"
	CodeUnreachedAppended   = "unreached-appended"
	CodeNoApplication       = "no-application"
)

// Diagnostic is one observable signal of ambiguity or degraded input. None
// of them stop the pipeline.
type Diagnostic struct {
	Level   slog.Level     `json:"level"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Diagnostics collects diagnostics for one pipeline run and mirrors each
// one to a logger. A nil *Diagnostics discards everything.
type Diagnostics struct {
	logger *slog.Logger
	items  []Diagnostic
}

// NewDiagnostics returns a collector logging to logger, or to the slog
// default when logger is nil.
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Diagnostics{logger: logger}
}

// Warn records a warning-level diagnostic. args are slog-style key/value pairs.
func (d *Diagnostics) Warn(code, msg string, args ...any) {
	d.add(slog.LevelWarn, code, msg, args)
}

// Info records an informational diagnostic.
func (d *Diagnostics) Info(code, msg string, args ...any) {
	d.add(slog.LevelInfo, code, msg, args)
}

// Debug records a debug-level diagnostic.
func (d *Diagnostics) Debug(code, msg string, args ...any) {
	d.add(slog.LevelDebug, code, msg, args)
}

func (d *Diagnostics) add(level slog.Level, code, msg string, args []any) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{
		Level:   level,
		Code:    code,
		Message: msg,
		Attrs:   attrMap(args),
	})
	if d.logger != nil {
		d.logger.Log(context.Background(), level, msg, append([]any{"code", code}, args...)...)
	}
}

// Items returns the collected diagnostics in emission order.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// Count returns how many diagnostics carry code.
func (d *Diagnostics) Count(code string) int {
	if d == nil {
		return 0
	}
	n := 0
	for _, it := range d.items {
		if it.Code == code {
			n++
		}
	}
	return n
}

func attrMap(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	m := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		m[fmt.Sprint(args[i])] = args[i+1]
	}
	return m
}
