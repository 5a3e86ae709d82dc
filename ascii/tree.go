package ascii

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tree renders a parsed value as an indented tree.  Maps with string
// keys and slices become branches, and anything else a leaf.
func Tree(value any, theme Theme) string {
	tp := &treePrinter{theme: theme}
	tp.visit(value)
	return tp.output.String()
}

type treePrinter struct {
	theme  Theme
	padStr []string
	output strings.Builder
}

func (tp *treePrinter) indent(s string) { tp.padStr = append(tp.padStr, s) }

func (tp *treePrinter) unindent() { tp.padStr = tp.padStr[:len(tp.padStr)-1] }

func (tp *treePrinter) write(s string) { tp.output.WriteString(s) }

func (tp *treePrinter) pwrite(s string) {
	for _, item := range tp.padStr {
		tp.write(item)
	}
	tp.write(s)
}

// child prints one branch of the node being visited
func (tp *treePrinter) child(last bool, label string, value any) {
	tp.write("\n")
	if last {
		tp.pwrite("└── ")
		tp.indent("    ")
	} else {
		tp.pwrite("├── ")
		tp.indent("│   ")
	}
	if label != "" {
		tp.write(Paint(tp.theme.Key, label))
		tp.write(": ")
	}
	tp.visit(value)
	tp.unindent()
}

func (tp *treePrinter) visit(value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		tp.write(Color(tp.theme.Kind, "Object<%d>", len(v)))
		for i, k := range keys {
			tp.child(i == len(keys)-1, strconv.Quote(k), v[k])
		}
	case []any:
		tp.write(Color(tp.theme.Kind, "Array<%d>", len(v)))
		for i, item := range v {
			tp.child(i == len(v)-1, "", item)
		}
	case []string:
		tp.write(Color(tp.theme.Kind, "Array<%d>", len(v)))
		for i, item := range v {
			tp.child(i == len(v)-1, "", item)
		}
	case string:
		tp.write(Paint(tp.theme.String, strconv.Quote(v)))
	case float64:
		tp.write(Paint(tp.theme.Number, strconv.FormatFloat(v, 'g', -1, 64)))
	case int:
		tp.write(Paint(tp.theme.Number, strconv.Itoa(v)))
	case bool:
		tp.write(Paint(tp.theme.Keyword, strconv.FormatBool(v)))
	case nil:
		tp.write(Paint(tp.theme.Keyword, "null"))
	case fmt.Stringer:
		tp.write(v.String())
	default:
		tp.write(fmt.Sprintf("%+v", v))
	}
}
