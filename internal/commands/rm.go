package commands

import (
	"context"
	"flag"
	"io"

	"todocheck/internal/config"
	"todocheck/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	userID string
}

// SetUser sets the user ID (for testing).
func (c *RmCmd) SetUser(userID string) {
	c.userID = userID
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "todocheck rm [--user <id>] <ref>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.userID, "user", "", "")
	fs.StringVar(&c.userID, "u", "", "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return fail(errOut, err)
	}

	// A bare ID is deleted without a lookup; delete is idempotent on the service.
	taskID := ref.ID
	if taskID == "" {
		task, err := ResolveTask(ctx, svc, c.userID, ref)
		if err != nil {
			return fail(errOut, err)
		}
		taskID = task.TaskID
	}

	if err := svc.DeleteTask(ctx, taskID); err != nil {
		return fail(errOut, err)
	}
	return ok(cfg, out)
}
