package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocheck/internal/config"
	"todocheck/internal/exitcode"
	"todocheck/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todocheck help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todocheck                                   Run the check suite
  todocheck check [common flags] [--run <substr>] [--count <n>]
  todocheck add [common flags] [--user <id>] [--done] <content...>
  todocheck get [common flags] [--user <id>] <ref>
  todocheck update [common flags] [--user <id>] [--done|--undone] <ref> [content...]
  todocheck done [common flags] [--user <id>] <ref>
  todocheck list [common flags] <user-id>
  todocheck rm [common flags] [--user <id>] <ref>
  todocheck ping [common flags]
  todocheck serve [common flags] [--addr <host:port>]
  todocheck help
  todocheck version

A <ref> is a task id, or a 1-based number into the list of --user's tasks.

Common flags:
  --config <dir>      Override config directory
  --endpoint <url>    Todo service base URL
  --backend <name>    todoapi or googletasks
  --quiet             Suppress informational output
  --debug             Print debug logs to stderr

Exit codes:
  0 success, 1 usage or not found, 2 auth or config, 3 backend, 4 check failed
`
