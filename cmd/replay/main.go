package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/replayparse/replay"
	"github.com/replayparse/replay/ascii"
	"github.com/replayparse/replay/examples/classes"
	jsongrammar "github.com/replayparse/replay/examples/json"
)

type args struct {
	grammar    *string
	rule       *string
	inputPath  *string
	configPath *string

	partial          *bool
	start            *int
	maxIterations    *int
	maxGreedyMatches *int

	trace   *bool
	stats   *bool
	tree    *bool
	noColor *bool

	// names of the flags given in the command line
	set map[string]bool
}

func readArgs(fs *flag.FlagSet, argv []string) (*args, error) {
	a := &args{
		grammar:    fs.String("grammar", "json", "Grammar to parse the input with: json or classes"),
		rule:       fs.String("rule", "", "Rule to start from, defaults to the whole document"),
		inputPath:  fs.String("input", "", "Path to the input file, opens a REPL when empty"),
		configPath: fs.String("config", "", "Path to a YAML file with parser settings"),

		// Parser options, they override the config file

		partial:          fs.Bool("partial", false, "Succeed without consuming the whole input"),
		start:            fs.Int("start", 0, "Byte offset where parsing starts"),
		maxIterations:    fs.Int("max-iterations", replay.DefaultMaxIterations, "Times each driver loop may run its rule"),
		maxGreedyMatches: fs.Int("max-greedy-matches", replay.DefaultMaxGreedyMatches, "Matches an unbounded greedy repetition may collect"),

		// Output options

		trace:   fs.Bool("trace", false, "Log every attempt and backtrack to the standard error"),
		stats:   fs.Bool("stats", false, "Print how much work each parse took"),
		tree:    fs.Bool("tree", false, "Print the value as a tree instead of JSON"),
		noColor: fs.Bool("no-color", false, "Disable colored output"),
	}

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	a.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { a.set[f.Name] = true })
	return a, nil
}

func main() {
	a, err := readArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		fatal("%s", err.Error())
	}

	c, err := newCommand(a, os.Stderr)
	if err != nil {
		fatal("%s", err.Error())
	}

	// If there's no input, it will open a lil REPL shell
	if *a.inputPath == "" {
		repl(c, os.Stdin, os.Stdout)
		return
	}

	text, err := os.ReadFile(*a.inputPath)
	if err != nil {
		fatal("Can't open input file: %s", err.Error())
	}
	if err := c.run(string(text), os.Stdout); err != nil {
		c.printError(os.Stderr, string(text), err)
		os.Exit(1)
	}
}

// grammar hides the context type of the rules of an example grammar
type grammar struct {
	defaultRule string
	rules       []string
	parse       func(rule, input string, opts []replay.Option) (replay.Result[any], error)
}

func newGrammar[C any](rules map[string]replay.Rule[any, C], ctx C, defaultRule string) grammar {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return grammar{
		defaultRule: defaultRule,
		rules:       names,
		parse: func(rule, input string, opts []replay.Option) (replay.Result[any], error) {
			return replay.Parse(rules[rule], input, ctx, opts...)
		},
	}
}

func (g grammar) has(rule string) bool {
	i := sort.SearchStrings(g.rules, rule)
	return i < len(g.rules) && g.rules[i] == rule
}

var grammars = map[string]grammar{
	"json":    newGrammar(jsongrammar.Rules, replay.None{}, "document"),
	"classes": newGrammar(classes.Rules, classes.Context{}, "unit"),
}

// command is a configured parser ready to run over inputs
type command struct {
	grammar grammar
	rule    string
	opts    []replay.Option
	theme   ascii.Theme
	tree    bool

	stats  *replay.Stats
	stderr io.Writer
}

func newCommand(a *args, stderr io.Writer) (*command, error) {
	g, ok := grammars[*a.grammar]
	if !ok {
		return nil, fmt.Errorf("Grammar `%s` not supported", *a.grammar)
	}
	rule := *a.rule
	if rule == "" {
		rule = g.defaultRule
	}
	if !g.has(rule) {
		return nil, fmt.Errorf("Rule `%s` not found in grammar `%s`, expected one of: %s",
			rule, *a.grammar, strings.Join(g.rules, ", "))
	}

	cfg := replay.NewConfig()
	if *a.configPath != "" {
		var err error
		if cfg, err = replay.LoadConfig(*a.configPath); err != nil {
			return nil, fmt.Errorf("Can't load config: %w", err)
		}
	}
	if a.set["partial"] {
		cfg.SetBool("parser.partial", *a.partial)
	}
	if a.set["start"] {
		cfg.SetInt("parser.start", *a.start)
	}
	if a.set["max-iterations"] {
		cfg.SetInt("parser.max_iterations", *a.maxIterations)
	}
	if a.set["max-greedy-matches"] {
		cfg.SetInt("parser.max_greedy_matches", *a.maxGreedyMatches)
	}
	if a.set["trace"] {
		cfg.SetBool("trace.enabled", *a.trace)
	}

	c := &command{
		grammar: g,
		rule:    rule,
		opts:    cfg.Options(),
		theme:   ascii.DefaultTheme,
		tree:    *a.tree,
		stderr:  stderr,
	}
	if *a.noColor {
		c.theme = ascii.PlainTheme
	}
	if cfg.Trace() {
		handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		c.opts = append(c.opts, replay.WithLogger(slog.New(handler)))
	}
	if *a.stats {
		c.stats = &replay.Stats{}
		c.opts = append(c.opts, replay.WithStats(c.stats))
	}
	return c, nil
}

// run parses `input` and prints the value it produced
func (c *command) run(input string, stdout io.Writer) error {
	if c.stats != nil {
		*c.stats = replay.Stats{}
		defer func() {
			fmt.Fprintln(c.stderr, ascii.Paint(c.theme.Muted, c.stats.String()))
		}()
	}

	res, err := c.grammar.parse(c.rule, input, c.opts)
	if err != nil {
		return err
	}

	if c.tree {
		fmt.Fprintln(stdout, ascii.Tree(res.Value, c.theme))
	} else {
		data, err := json.MarshalIndent(res.Value, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
	}
	fmt.Fprintln(stdout, ascii.Color(c.theme.Muted, "last index: %d", res.LastIndex))
	return nil
}

// printError prints a parsing error pointing at where it happened
// within the input.  Other errors are printed as they are.
func (c *command) printError(w io.Writer, input string, err error) {
	label := ascii.Paint(c.theme.Error, "ERROR:")
	var perr *replay.ParsingError
	if !errors.As(err, &perr) {
		fmt.Fprintf(w, "%s %s\n", label, err.Error())
		return
	}
	fmt.Fprintf(w, "%s %s\n", label, perr.Message)
	fmt.Fprintln(w, ascii.Excerpt(input, perr.Index, c.theme))
}

func repl(c *command, stdin io.Reader, stdout io.Writer) {
	reader := bufio.NewReader(stdin)
	for {
		fmt.Fprint(stdout, "> ")
		text, _ := reader.ReadString('\n')

		if text == "" {
			fmt.Fprintln(stdout, "")
			break
		}

		text = strings.TrimRight(text, "\r\n")
		if text == "" {
			continue
		}

		if err := c.run(text, stdout); err != nil {
			c.printError(stdout, text, err)
		}
	}
}

// fatal prints an error message and exits with code 1.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s ", ascii.Paint(ascii.Red, "error:"))
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintf(os.Stderr, "\n")
	os.Exit(1)
}
