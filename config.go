package replay

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	cfgMaxIterations    = "parser.max_iterations"
	cfgMaxGreedyMatches = "parser.max_greedy_matches"
	cfgPartial          = "parser.partial"
	cfgStart            = "parser.start"
	cfgTrace            = "trace.enabled"
)

// Config holds parser settings addressed by dotted paths.  Every
// setting has a type fixed by NewConfig; reading or writing it with
// another type is a programming error and panics.
type Config map[string]*cfgVal

// NewConfig creates a new configuration object primed with all the
// default values expected by Parse.
func NewConfig() *Config {
	m := make(Config)
	// rule executions allowed per driver loop, nested loops
	// included
	m.SetInt(cfgMaxIterations, DefaultMaxIterations)
	// matches an unbounded greedy repetition may collect
	m.SetInt(cfgMaxGreedyMatches, DefaultMaxGreedyMatches)
	// accept a rule that doesn't consume the whole input
	m.SetBool(cfgPartial, false)
	// byte offset where the top-level parse starts
	m.SetInt(cfgStart, 0)
	// log every attempt and backtrack at the debug level
	m.SetBool(cfgTrace, false)
	return &m
}

// LoadConfig reads the YAML file at `path` over the default settings
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig reads YAML settings over the default ones.  Nested
// mappings are joined into dotted paths, so
//
//	parser:
//	  max_iterations: 50
//
// sets `parser.max_iterations`.  Unknown settings and values of the
// wrong type are errors.
func ParseConfig(data []byte) (*Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	cfg := NewConfig()
	if err := cfg.load("", doc); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load(prefix string, doc map[string]any) error {
	for k, v := range doc {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			if err := c.load(path, sub); err != nil {
				return err
			}
			continue
		}
		val, ok := (*c)[path]
		if !ok {
			return fmt.Errorf("unknown setting `%s`", path)
		}
		switch typed := v.(type) {
		case int:
			if val.typ != cfgValType_Int {
				return fmt.Errorf("setting `%s` expects %s, got int", path, val.typ)
			}
			val.asInt = typed
		case bool:
			if val.typ != cfgValType_Bool {
				return fmt.Errorf("setting `%s` expects %s, got bool", path, val.typ)
			}
			val.asBool = typed
		default:
			return fmt.Errorf("setting `%s` expects %s, got %T", path, val.typ, v)
		}
	}
	return nil
}

// Write prints every setting, sorted by path, one per line
func (c *Config) Write(w io.Writer) {
	keys := make([]string, 0, len(*c))
	width := 0
	for k := range *c {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "%-*s : %s\n", width, k, (*c)[k])
	}
}

// Trace tells whether the parse should be traced
func (c *Config) Trace() bool {
	return c.GetBool(cfgTrace)
}

// Options turns the settings into options for Parse
func (c *Config) Options() []Option {
	return []Option{WithConfig(c)}
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
)

func (vt cfgValType) String() string {
	switch vt {
	case cfgValType_Bool:
		return "bool"
	case cfgValType_Int:
		return "int"
	default:
		return "undefined"
	}
}

type cfgVal struct {
	typ    cfgValType
	asBool bool
	asInt  int
}

func (v *cfgVal) String() string {
	switch v.typ {
	case cfgValType_Bool:
		return fmt.Sprintf("%t (bool)", v.asBool)
	case cfgValType_Int:
		return fmt.Sprintf("%d (int)", v.asInt)
	default:
		return "(undefined)"
	}
}

// slot returns the value at `path` making sure it holds `vt`.  New
// paths take the type of their first assignment.
func (c *Config) slot(path string, vt cfgValType) *cfgVal {
	val, ok := (*c)[path]
	if !ok {
		val = &cfgVal{typ: vt}
		(*c)[path] = val
	}
	if val.typ != vt {
		panic(fmt.Sprintf("Can't use `%s` setting `%s` as %s", val.typ, path, vt))
	}
	return val
}

func (c *Config) get(path string, vt cfgValType) *cfgVal {
	val, ok := (*c)[path]
	if !ok {
		panic(fmt.Sprintf("%s setting `%s` does not exist", vt, path))
	}
	if val.typ != vt {
		panic(fmt.Sprintf("Can't retrieve %s from `%s` setting `%s`", vt, val.typ, path))
	}
	return val
}

func (c *Config) SetBool(path string, v bool) { c.slot(path, cfgValType_Bool).asBool = v }

func (c *Config) SetInt(path string, v int) { c.slot(path, cfgValType_Int).asInt = v }

func (c *Config) GetBool(path string) bool { return c.get(path, cfgValType_Bool).asBool }

func (c *Config) GetInt(path string) int { return c.get(path, cfgValType_Int).asInt }
