package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocheck/internal/config"
	"todocheck/internal/exitcode"
	"todocheck/internal/service"
	"todocheck/internal/twin"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the in-memory todo service until interrupted.
type ServeCmd struct {
	addr string
}

// SetAddr sets the listen address (for testing).
func (c *ServeCmd) SetAddr(addr string) {
	c.addr = addr
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Serve an in-memory todo service" }
func (c *ServeCmd) Usage() string      { return "todocheck serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, _ service.Service, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.ServeAddr
	}

	if err := twin.ListenAndServe(ctx, addr, twin.NewStore(), cfg.Logger()); err != nil {
		fmt.Fprintf(errOut, "error: serve: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
