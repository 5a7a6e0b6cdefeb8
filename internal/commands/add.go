package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todocheck/internal/config"
	"todocheck/internal/exitcode"
	"todocheck/internal/output"
	"todocheck/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	userID string
	done   bool
}

// SetUser sets the user ID (for testing).
func (c *AddCmd) SetUser(userID string) {
	c.userID = userID
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todocheck add [--user <id>] [--done] <content...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.userID, "user", "", "")
	fs.StringVar(&c.userID, "u", "", "")
	fs.BoolVar(&c.done, "done", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	content := strings.Join(args, " ")
	if strings.TrimSpace(content) == "" {
		fmt.Fprintln(errOut, "error: content required")
		return exitcode.UserError
	}

	// Without --user the task goes to a fresh throwaway user.
	userID := c.userID
	if userID == "" {
		userID = service.NewTestPayload().UserID
	}

	task, err := svc.CreateTask(ctx, service.TaskPayload{
		UserID:  userID,
		Content: content,
		IsDone:  c.done,
	})
	if err != nil {
		return fail(errOut, err)
	}
	cfg.Logger().Debug("task created", "task_id", task.TaskID, "user_id", task.UserID)

	if cfg.Quiet {
		fmt.Fprintln(out, task.TaskID)
		return exitcode.Success
	}
	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
