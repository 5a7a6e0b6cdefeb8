package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocheck/internal/backend/todoapi"
	"todocheck/internal/config"
	"todocheck/internal/exitcode"
	"todocheck/internal/report"
	"todocheck/internal/schema"
	"todocheck/internal/service"
	"todocheck/internal/suite"
)

func init() {
	Register(&CheckCmd{})
}

// CheckCmd runs the contract scenarios against the configured endpoint.
// It always speaks HTTP to cfg.Endpoint, whatever backend is configured.
type CheckCmd struct {
	run   string
	count int
}

// SetRun sets the scenario filter (for testing).
func (c *CheckCmd) SetRun(filter string) {
	c.run = filter
}

func (c *CheckCmd) Name() string       { return "check" }
func (c *CheckCmd) Aliases() []string  { return []string{"test"} }
func (c *CheckCmd) Synopsis() string   { return "Run the check suite" }
func (c *CheckCmd) Usage() string      { return "todocheck check [--run <substr>] [--count <n>]" }
func (c *CheckCmd) NeedsService() bool { return false }

func (c *CheckCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.run, "run", "", "")
	fs.IntVar(&c.count, "count", 0, "")
}

func (c *CheckCmd) Run(ctx context.Context, cfg *config.Config, _ service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.count < 0 {
		fmt.Fprintf(errOut, "error: invalid count: %d\n", c.count)
		return exitcode.UserError
	}
	count := cfg.ListCount
	if c.count > 0 {
		count = c.count
	}

	log := cfg.Logger()

	schemas, err := loadSchemas(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	client := todoapi.New(ctx, cfg.BaseURL(), todoapi.Options{
		Timeout: cfg.Timeout,
		Token:   cfg.Token,
		Logger:  log,
	})

	runner := suite.NewRunner(&suite.Env{
		Client:    client,
		Schemas:   schemas,
		ListCount: count,
		Log:       log,
	})
	if len(runner.Select(c.run)) == 0 {
		fmt.Fprintf(errOut, "error: no scenario matches: %s\n", c.run)
		return exitcode.UserError
	}

	log.Info("running checks", "endpoint", client.BaseURL(), "filter", c.run)
	result := runner.Run(ctx, c.run)

	reporters := report.Multi{report.NewText(out, cfg.Quiet)}
	if cfg.FluentBit.Enabled {
		fl, err := report.NewFluent(report.FluentConfig{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: config.AppName,
		})
		if err != nil {
			log.Warn("fluent bit unavailable", "error", err)
		} else {
			defer fl.Close()
			reporters = append(reporters, fl)
		}
	}
	// Publishing problems never change the verdict.
	if err := reporters.Report(ctx, result); err != nil {
		log.Warn("publishing results failed", "error", err)
	}

	if !result.Passed {
		return exitcode.CheckFailed
	}
	return exitcode.Success
}

func loadSchemas(cfg *config.Config) (*schema.Validator, error) {
	if cfg.SchemaDir != "" {
		return schema.NewWithDir(cfg.SchemaDir)
	}
	return schema.New()
}
