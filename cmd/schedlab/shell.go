package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/txnlab/schedlab/core/schedule"
)

const shellHelp = `Enter a schedule to characterize it, e.g.

    R1(A) W2(A) C1 C2

Tokens: R<t>(<item>) read, W<t>(<item>) write, C<t> commit, A<t> abort.
Commands: help, quit (or exit, or Ctrl-D).`

func newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive schedule analyzer",
		RunE:  runShell,
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "schedlab> ",
		HistoryFile: filepath.Join(os.TempDir(), ".schedlab_history"),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, `schedlab interactive shell. Type "help" for usage.`)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
		case "help":
			fmt.Fprintln(out, shellHelp)
		case "quit", "exit":
			return nil
		default:
			if err := analyzeLine(out, line); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		}
	}
}

func analyzeLine(out io.Writer, line string) error {
	sched, err := schedule.Parse(line)
	if err != nil {
		return err
	}
	return printCharacterization(out, sched)
}
