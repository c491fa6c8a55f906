package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newSQLCommand(opts *rootOptions) *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:   "sql [command ...]",
		Short: "Run shell commands and print the resulting SQL",
		Long: `Run shell commands non-interactively and print the statement they build.

Each argument is one command. Without arguments, commands are read from
standard input, one per line; lines starting with '#' are skipped.`,
		Example: `  relq sql "from users" "project users.id" "where users.id = 1"
  relq sql --engine mysql < query.relq
  relq sql --exec --engine sqlite --dsn app.db "from users" "delete"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := NewSession(opts.cfg, opts.logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			sess.quiet = true

			lines := args
			if len(lines) == 0 {
				if lines, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return runScript(cmd.Context(), sess, lines, execute)
		},
	}
	cmd.Flags().BoolVar(&execute, "exec", false, "connect and execute the statement instead of printing it")
	return cmd
}

// runScript executes lines in order, stopping at the first failing one,
// then prints or executes the statement they built.
func runScript(ctx context.Context, sess *Session, lines []string, execute bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if execute {
		if err := sess.Execute(ctx, "connect"); err != nil {
			return err
		}
	}
	for i, line := range lines {
		if err := sess.Execute(ctx, line); err != nil {
			return fmt.Errorf("line %d (%s): %w", i+1, strings.TrimSpace(line), err)
		}
	}
	if execute {
		return sess.cmdExec(ctx)
	}
	return sess.cmdSQL()
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading commands: %w", err)
	}
	return lines, nil
}
