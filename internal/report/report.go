// Package report publishes suite results.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todocheck/internal/output"
	"todocheck/internal/suite"
)

// Reporter publishes a finished suite run.
type Reporter interface {
	Report(ctx context.Context, r *suite.Report) error
}

// Text writes a human-readable result table.
type Text struct {
	w io.Writer
	// Quiet prints only failures and the summary.
	Quiet bool
}

// NewText returns a Text reporter writing to w.
func NewText(w io.Writer, quiet bool) *Text {
	return &Text{w: w, Quiet: quiet}
}

// Report implements Reporter.
func (t *Text) Report(ctx context.Context, r *suite.Report) error {
	for _, res := range r.Results {
		if t.Quiet && res.Passed {
			continue
		}
		output.FormatResult(t.w, res)
	}
	output.FormatSummary(t.w, r)
	return nil
}

// Multi fans a report out to several reporters and joins their errors.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(ctx context.Context, r *suite.Report) error {
	var errs []error
	for _, rep := range m {
		if err := rep.Report(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("report: %w", errors.Join(errs...))
	}
	return nil
}
