package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
)

const prompt = "relq> "

func newShellCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Build and run queries interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := NewSession(opts.cfg, opts.logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			return runShell(cmd.Context(), sess)
		},
	}
}

func runShell(ctx context.Context, sess *Session) error {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &shellCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	if sess.cfg.DSN != "" {
		if err := sess.Execute(ctx, "connect"); err != nil {
			sess.printf("  Warning: connect failed: %v\n", err)
		}
	}

	sess.printf("relq shell (%s), type 'help' for commands, 'exit' to quit\n\n", sess.eng.Dialect())
	for {
		line, err := rl.ReadLine()
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
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit", `\q`:
			return nil
		}
		if err := sess.Execute(ctx, line); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".relq_history")
}

// tableCommands take a table or alias name as their argument.
var tableCommands = []string{"from", "join", "outer join", "alias", "table"}

// shellCompleter implements readline.AutoCompleter: command words at the
// start of a line, table and alias names after commands that take one.
type shellCompleter struct {
	sess *Session
}

// Do returns the suffixes completing the word before pos, and the length
// of that word.
func (c *shellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	before := strings.ToLower(string(line[:pos]))
	prefix := before
	if i := strings.LastIndexAny(before, " ,"); i >= 0 {
		prefix = before[i+1:]
	}
	head := strings.TrimSpace(strings.TrimSuffix(before, prefix))

	var candidates []string
	switch {
	case head == "":
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case isTableCommand(head):
		candidates = filterPrefix(c.sess.relationNames(), prefix)
	}

	out := make([][]rune, len(candidates))
	for i, cand := range candidates {
		out[i] = []rune(cand[len(prefix):] + " ")
	}
	return out, len([]rune(prefix))
}

func isTableCommand(head string) bool {
	for _, cmd := range tableCommands {
		if head == cmd || (cmd == "from" && strings.HasPrefix(head, "from ")) {
			return true
		}
	}
	return false
}

// relationNames returns the registered table and alias names, sorted.
func (s *Session) relationNames() []string {
	names := make([]string, 0, len(s.tables)+len(s.aliases))
	for name := range s.tables {
		names = append(names, name)
	}
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func filterPrefix(words []string, prefix string) []string {
	var out []string
	for _, w := range words {
		if strings.HasPrefix(strings.ToLower(w), prefix) {
			out = append(out, w)
		}
	}
	return out
}
