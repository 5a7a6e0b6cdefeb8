package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todocheck/internal/config"
	"todocheck/internal/exitcode"
	"todocheck/internal/service"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command.
type UpdateCmd struct {
	userID string
	done   bool
	undone bool
}

// SetUser sets the user ID (for testing).
func (c *UpdateCmd) SetUser(userID string) {
	c.userID = userID
}

// SetDone sets the --done and --undone flags (for testing).
func (c *UpdateCmd) SetDone(done, undone bool) {
	c.done, c.undone = done, undone
}

func (c *UpdateCmd) Name() string      { return "update" }
func (c *UpdateCmd) Aliases() []string { return []string{"edit"} }
func (c *UpdateCmd) Synopsis() string  { return "Change a task's content or state" }
func (c *UpdateCmd) Usage() string {
	return "todocheck update [--user <id>] [--done|--undone] <ref> [content...]"
}
func (c *UpdateCmd) NeedsService() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.userID, "user", "", "")
	fs.StringVar(&c.userID, "u", "", "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.undone, "undone", false, "")
}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.done && c.undone {
		fmt.Fprintln(errOut, "error: cannot use both --done and --undone")
		return exitcode.UserError
	}

	var content string
	if len(args) > 1 {
		content = strings.Join(args[1:], " ")
	}
	if content == "" && !c.done && !c.undone {
		fmt.Fprintln(errOut, "error: nothing to update")
		return exitcode.UserError
	}

	task, err := resolveArgs(ctx, svc, c.userID, args)
	if err != nil {
		return fail(errOut, err)
	}

	p := task.Payload()
	if content != "" {
		p.Content = content
	}
	switch {
	case c.done:
		p.IsDone = true
	case c.undone:
		p.IsDone = false
	}

	if err := svc.UpdateTask(ctx, p); err != nil {
		return fail(errOut, err)
	}
	return ok(cfg, out)
}
