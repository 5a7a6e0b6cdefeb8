package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"todocheck/internal/config"
	"todocheck/internal/exitcode"
	"todocheck/internal/service"
)

func init() {
	Register(&PingCmd{})
}

// PingCmd checks that the configured backend answers.
type PingCmd struct{}

func (c *PingCmd) Name() string       { return "ping" }
func (c *PingCmd) Aliases() []string  { return nil }
func (c *PingCmd) Synopsis() string   { return "Check the backend is reachable" }
func (c *PingCmd) Usage() string      { return "todocheck ping" }
func (c *PingCmd) NeedsService() bool { return true }

func (c *PingCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PingCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	start := time.Now()
	if err := svc.Ping(ctx); err != nil {
		return fail(errOut, err)
	}
	cfg.Logger().Debug("backend answered", "backend", cfg.Backend, "duration", time.Since(start))
	return ok(cfg, out)
}
