package commands

import (
	"context"
	"flag"
	"io"

	"todocheck/internal/config"
	"todocheck/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	userID string
}

// SetUser sets the user ID (for testing).
func (c *DoneCmd) SetUser(userID string) {
	c.userID = userID
}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return nil }
func (c *DoneCmd) Synopsis() string   { return "Mark a task completed" }
func (c *DoneCmd) Usage() string      { return "todocheck done [--user <id>] <ref>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.userID, "user", "", "")
	fs.StringVar(&c.userID, "u", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, err := resolveArgs(ctx, svc, c.userID, args)
	if err != nil {
		return fail(errOut, err)
	}

	// Already done is still success.
	if !task.IsDone {
		p := task.Payload()
		p.IsDone = true
		if err := svc.UpdateTask(ctx, p); err != nil {
			return fail(errOut, err)
		}
	}
	return ok(cfg, out)
}
