package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/app/utils"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

const (
	promptMain         = "clickhouse> "
	promptContinuation = "         -> "
	historyFileName    = ".clickhouse_adapter_history"
)

var dotCommands = []string{".help", ".catalog", ".limit", ".format", ".quit", ".exit"}

func newShellCommand(factory AdapterFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive SQL shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, factory)
		},
	}

	cmd.Flags().Int(flagLimit, 0, "maximum number of rows to fetch per statement, 0 means all")
	cmd.Flags().StringP(flagFormat, "f", formatTable, "output format: table, json, csv")

	return cmd
}

func runShell(cmd *cobra.Command, factory AdapterFactory) error {
	ctx := cmd.Context()

	s, err := openSession(cmd, factory)
	if err != nil {
		return err
	}

	defer utils.LogCloserError(s.logger, s, "close connection")

	sh := newShell(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), s)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptMain,
		HistoryFile:     historyPath(),
		AutoComplete:    sh.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}

	defer utils.LogCloserError(s.logger, rl, "close readline")

	_, _ = fmt.Fprintln(sh.out, s.conn.InitMessage())
	_, _ = fmt.Fprintln(sh.out, "Type .help for commands, .quit to exit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			sh.reset()
			rl.SetPrompt(promptMain)

			continue
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		if sh.handleLine(line) {
			return nil
		}

		if sh.pending() {
			rl.SetPrompt(promptContinuation)
		} else {
			rl.SetPrompt(promptMain)
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, historyFileName)
}

type shell struct {
	ctx     context.Context
	out     io.Writer
	errOut  io.Writer
	session *session
	format  string
	limit   int
	buffer  strings.Builder
}

func newShell(ctx context.Context, out, errOut io.Writer, s *session) *shell {
	if ctx == nil {
		ctx = context.Background()
	}

	return &shell{
		ctx:     ctx,
		out:     out,
		errOut:  errOut,
		session: s,
		format:  s.cfg.Output.Format,
		limit:   s.cfg.Output.Limit,
	}
}

func (sh *shell) pending() bool { return sh.buffer.Len() > 0 }

func (sh *shell) reset() { sh.buffer.Reset() }

// handleLine consumes one line of input and reports whether the shell should exit.
// Statements accumulate until a line ends with a semicolon.
func (sh *shell) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !sh.pending() && strings.HasPrefix(line, ".") {
		return sh.handleDotCommand(line)
	}

	sh.buffer.WriteString(line)

	if !strings.HasSuffix(line, ";") {
		sh.buffer.WriteString("\n")

		return false
	}

	query := strings.TrimSuffix(sh.buffer.String(), ";")
	sh.reset()

	if err := executeAndRender(sh.ctx, sh.out, sh.session, query, sh.format, sh.limit); err != nil {
		_, _ = fmt.Fprintln(sh.errOut, DescribeError(err))
	}

	return false
}

func (sh *shell) handleDotCommand(line string) bool {
	parts := strings.Fields(line)

	switch command := strings.ToLower(parts[0]); command {
	case ".quit", ".exit":
		return true
	case ".help":
		printShellHelp(sh.out)
	case ".catalog":
		catalog, err := sh.session.conn.GetCatalog(sh.ctx)
		if err != nil {
			_, _ = fmt.Fprintln(sh.errOut, DescribeError(err))

			return false
		}

		if err := renderCatalog(sh.out, formatTree, catalog); err != nil {
			_, _ = fmt.Fprintln(sh.errOut, err)
		}
	case ".limit":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(sh.out, "limit: %d\n", sh.limit)

			return false
		}

		limit, err := strconv.Atoi(parts[1])
		if err != nil || limit < 0 {
			_, _ = fmt.Fprintf(sh.errOut, "invalid limit %q: expected a non-negative integer\n", parts[1])

			return false
		}

		sh.limit = limit
	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(sh.out, "format: %s\n", sh.format)

			return false
		}

		switch parts[1] {
		case formatTable, formatJSON, formatCSV:
			sh.format = parts[1]
		default:
			_, _ = fmt.Fprintf(sh.errOut, "invalid format %q: expected table, json or csv\n", parts[1])
		}
	default:
		_, _ = fmt.Fprintf(sh.errOut, "unknown command: %s (type .help for commands)\n", command)
	}

	return false
}

func printShellHelp(w io.Writer) {
	_, _ = fmt.Fprint(w, `Commands:
  .help           Show this help message
  .catalog        Print databases, relations and columns
  .limit [N]      Show or set the row limit, 0 means all rows
  .format [F]     Show or set the output format: table, json, csv
  .quit / .exit   Exit the shell

Statements end with a semicolon and may span several lines.
`)
}

func (sh *shell) completer() *wordCompleter {
	var words []string

	completions, err := sh.session.conn.GetCompletions(sh.ctx)
	if err != nil {
		sh.session.logger.Warn("completions are unavailable", log.Error(err))
	}

	for _, c := range completions {
		words = append(words, c.Value)
	}

	catalog, err := sh.session.conn.GetCatalog(sh.ctx)
	if err != nil {
		sh.session.logger.Warn("catalog completions are unavailable", log.Error(err))
	} else {
		catalog.Walk(func(item *adapter.CatalogItem, _ int) bool {
			words = append(words, item.Label)

			return true
		})
	}

	return newWordCompleter(append(words, dotCommands...))
}

var _ readline.AutoCompleter = (*wordCompleter)(nil)

// wordCompleter completes the word under the cursor from a fixed vocabulary,
// case-insensitively.
type wordCompleter struct {
	words []string
}

func newWordCompleter(words []string) *wordCompleter {
	seen := make(map[string]struct{}, len(words))
	unique := make([]string, 0, len(words))

	for _, w := range words {
		if _, ok := seen[w]; ok || w == "" {
			continue
		}

		seen[w] = struct{}{}
		unique = append(unique, w)
	}

	sort.Strings(unique)

	return &wordCompleter{words: unique}
}

func (c *wordCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !isWordSeparator(line[start-1]) {
		start--
	}

	// dot commands at the start of the line
	if start == 1 && line[0] == '.' {
		start = 0
	}

	prefix := line[start:pos]
	if len(prefix) == 0 {
		return nil, 0
	}

	var candidates [][]rune

	for _, w := range c.words {
		word := []rune(w)
		if len(word) <= len(prefix) {
			continue
		}

		if strings.EqualFold(string(word[:len(prefix)]), string(prefix)) {
			candidates = append(candidates, word[len(prefix):])
		}
	}

	return candidates, len(prefix)
}

func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(`(),;=."'`+"`", r)
}
