package report

import (
	"context"
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"

	"todocheck/internal/suite"
)

// Fluent tag suffixes under the configured prefix.
const (
	TagResult  = "result"
	TagSummary = "summary"
)

// Poster is the part of *fluent.Fluent the reporter uses.
type Poster interface {
	Post(tag string, message any) error
}

// FluentConfig configures the Fluent Bit connection.
type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
}

// Fluent posts one record per scenario and one summary record to Fluent Bit.
type Fluent struct {
	client Poster
	closer func() error
}

// NewFluent connects a Fluent reporter. Close releases the connection.
func NewFluent(cfg FluentConfig) (*Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}
	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Timeout:    3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating fluent client: %w", err)
	}
	return &Fluent{client: client, closer: client.Close}, nil
}

// NewFluentWithPoster wraps an existing poster.
func NewFluentWithPoster(p Poster) *Fluent {
	return &Fluent{client: p, closer: func() error { return nil }}
}

// Report implements Reporter.
func (f *Fluent) Report(ctx context.Context, r *suite.Report) error {
	for _, res := range r.Results {
		record := map[string]any{
			"endpoint":    r.Endpoint,
			"scenario":    res.Scenario,
			"passed":      res.Passed,
			"duration_ms": res.Duration.Milliseconds(),
		}
		if res.Error != "" {
			record["error"] = res.Error
		}
		if err := f.client.Post(TagResult, record); err != nil {
			return fmt.Errorf("posting result %s: %w", res.Scenario, err)
		}
	}

	passed, failed := r.Counts()
	summary := map[string]any{
		"endpoint":    r.Endpoint,
		"passed":      r.Passed,
		"scenarios":   len(r.Results),
		"ok":          passed,
		"failed":      failed,
		"duration_ms": r.Duration.Milliseconds(),
	}
	if err := f.client.Post(TagSummary, summary); err != nil {
		return fmt.Errorf("posting summary: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (f *Fluent) Close() error {
	return f.closer()
}
