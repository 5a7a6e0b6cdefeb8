package commands

import (
	"context"
	"flag"
	"io"

	"todocheck/internal/config"
	"todocheck/internal/exitcode"
	"todocheck/internal/output"
	"todocheck/internal/service"
)

func init() {
	Register(&GetCmd{})
}

// GetCmd implements the get command.
type GetCmd struct {
	userID string
}

// SetUser sets the user ID (for testing).
func (c *GetCmd) SetUser(userID string) {
	c.userID = userID
}

func (c *GetCmd) Name() string       { return "get" }
func (c *GetCmd) Aliases() []string  { return []string{"show"} }
func (c *GetCmd) Synopsis() string   { return "Show a task" }
func (c *GetCmd) Usage() string      { return "todocheck get [--user <id>] <ref>" }
func (c *GetCmd) NeedsService() bool { return true }

func (c *GetCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.userID, "user", "", "")
	fs.StringVar(&c.userID, "u", "", "")
}

func (c *GetCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, err := resolveArgs(ctx, svc, c.userID, args)
	if err != nil {
		return fail(errOut, err)
	}
	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
