// Package suite runs the todo service contract scenarios and records their outcome.
package suite

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"todocheck/internal/backend/todoapi"
	"todocheck/internal/logging"
	"todocheck/internal/schema"
)

// DefaultListCount is how many tasks list_tasks creates when Env.ListCount is unset.
const DefaultListCount = 3

// Env is what every scenario gets to work with.
type Env struct {
	Client  *todoapi.Client
	Schemas *schema.Validator
	// ListCount is the number of tasks list_tasks creates for one user.
	ListCount int
	Log       *slog.Logger
}

// Scenario is one named, independent contract check.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, e *Env) error
}

// Result records the outcome of one scenario.
type Result struct {
	Scenario string        `json:"scenario"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"` // empty when passed
}

// Report records the outcome of a whole run.
type Report struct {
	Endpoint string        `json:"endpoint"`
	Passed   bool          `json:"passed"`
	Results  []Result      `json:"results"`
	Duration time.Duration `json:"duration"`
}

// Counts returns how many scenarios passed and failed.
func (r *Report) Counts() (passed, failed int) {
	for _, res := range r.Results {
		if res.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Runner executes scenarios sequentially against one endpoint.
type Runner struct {
	env       *Env
	scenarios []Scenario
}

// NewRunner creates a Runner. With no scenarios given it runs Default().
func NewRunner(env *Env, scenarios ...Scenario) *Runner {
	if env.ListCount < 1 {
		env.ListCount = DefaultListCount
	}
	if env.Log == nil {
		env.Log = logging.Discard()
	}
	if len(scenarios) == 0 {
		scenarios = Default()
	}
	return &Runner{env: env, scenarios: scenarios}
}

// Select returns the scenarios whose name contains filter. An empty filter selects all.
func (r *Runner) Select(filter string) []Scenario {
	if filter == "" {
		return r.scenarios
	}
	var out []Scenario
	for _, s := range r.scenarios {
		if strings.Contains(s.Name, filter) {
			out = append(out, s)
		}
	}
	return out
}

// Run executes the selected scenarios in order. A failing scenario does not stop
// the ones after it. Once ctx is cancelled the remaining scenarios are recorded
// as failed without running.
func (r *Runner) Run(ctx context.Context, filter string) *Report {
	start := time.Now()
	report := &Report{
		Endpoint: r.env.Client.BaseURL(),
		Passed:   true,
	}

	for _, s := range r.Select(filter) {
		if err := ctx.Err(); err != nil {
			// Scenarios that never ran are failures, not silent passes.
			report.Results = append(report.Results, Result{
				Scenario: s.Name,
				Error:    "skipped: " + err.Error(),
			})
			report.Passed = false
			continue
		}
		res := r.runScenario(ctx, s)
		report.Results = append(report.Results, res)
		if !res.Passed {
			report.Passed = false
		}
	}

	if len(report.Results) == 0 {
		report.Passed = false
	}
	report.Duration = time.Since(start)
	return report
}

func (r *Runner) runScenario(ctx context.Context, s Scenario) Result {
	log := r.env.Log.With("scenario", s.Name)
	log.Debug("scenario started")

	start := time.Now()
	err := s.Run(ctx, r.env)
	res := Result{
		Scenario: s.Name,
		Passed:   err == nil,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Error = err.Error()
		log.Warn("scenario failed", "error", err, "duration", res.Duration)
	} else {
		log.Info("scenario passed", "duration", res.Duration)
	}
	return res
}
