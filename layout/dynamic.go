package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/escp2doc/escp2doc/escperr"
	"github.com/escp2doc/escp2doc/printer"
)

// Operator is a comparison operator supported by If/Switch conditions.
type Operator string

const (
	OpEq  Operator = "eq"
	OpNe  Operator = "ne"
	OpGt  Operator = "gt"
	OpLt  Operator = "lt"
	OpGte Operator = "gte"
	OpLte Operator = "lte"
)

// Comparison is the condition consumed by If/Switch.
type Comparison struct {
	Path     string
	Operator Operator
	Value    any
}

// Template resolves a `{{path | filter:arg | ...}}` interpolation string
// against the enclosing Context before layout, producing a Text leaf
// carrying Style.
type Template struct {
	TemplateStr string
	Data        any // optional sub-context; nil uses the enclosing context
	Style       printer.Style
}

func (*Template) isNode() {}

// If conditionally selects Then or Else based on Condition. Else may be
// nil, in which case a false condition resolves to nothing.
type If struct {
	Condition Comparison
	Then      Node
	Else      Node
}

func (*If) isNode() {}

// Switch selects among Cases by the string form of Path's resolved value,
// falling back to Default.
type Switch struct {
	Path    string
	Cases   map[string]Node
	Default Node
}

func (*Switch) isNode() {}

// For iterates Items (a context path naming a slice), binding each element
// under the name As and resolving Render for every iteration, optionally
// interleaving Separator between items.
type For struct {
	Items     string
	As        string
	Render    Node
	Separator Node
}

func (*For) isNode() {}

// Context is the data-binding environment dynamic nodes resolve against.
// Layout only requires that every dynamic node be fully resolved before
// it reaches the solver; Context itself is an external collaborator.
type Context struct {
	data    map[string]any
	filters map[string]FilterFunc
}

// FilterFunc transforms a resolved value given filter arguments, e.g.
// `truncate:20` invokes the "truncate" filter with args ["20"].
type FilterFunc func(v any, args []string) any

// NewContext builds a Context over the given data with the default filter
// registry (uppercase, lowercase, capitalize, trim, truncate:n,
// default:"v", currency:"sym", number, percent).
func NewContext(data map[string]any) *Context {
	return &Context{data: data, filters: DefaultFilters()}
}

// WithFilter registers or overrides a named filter.
func (c *Context) WithFilter(name string, fn FilterFunc) *Context {
	c.filters[name] = fn
	return c
}

// DefaultFilters returns the baseline filter registry every Context
// starts with.
func DefaultFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		"uppercase": func(v any, _ []string) any { return strings.ToUpper(toStr(v)) },
		"lowercase": func(v any, _ []string) any { return strings.ToLower(toStr(v)) },
		"capitalize": func(v any, _ []string) any {
			s := toStr(v)
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"trim": func(v any, _ []string) any { return strings.TrimSpace(toStr(v)) },
		"truncate": func(v any, args []string) any {
			s := toStr(v)
			if len(args) == 0 {
				return s
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 || n >= len(s) {
				return s
			}
			return s[:n]
		},
		"default": func(v any, args []string) any {
			if v == nil || toStr(v) == "" {
				if len(args) > 0 {
					return args[0]
				}
				return ""
			}
			return v
		},
		"currency": func(v any, args []string) any {
			sym := "$"
			if len(args) > 0 {
				sym = args[0]
			}
			return fmt.Sprintf("%s%.2f", sym, toFloat(v))
		},
		"number": func(v any, _ []string) any { return fmt.Sprintf("%g", toFloat(v)) },
		"percent": func(v any, _ []string) any { return fmt.Sprintf("%.0f%%", toFloat(v)*100) },
	}
}

func toStr(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		f, _ := strconv.ParseFloat(toStr(v), 64)
		return f
	}
}

// Lookup resolves a dotted path ("a.b.c") against the context data.
func (c *Context) Lookup(path string) any {
	if path == "" {
		return nil
	}
	cur := any(c.data)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

// child returns a new Context with `name` bound to value, used by For to
// scope loop variables without mutating the parent context.
func (c *Context) child(name string, value any) *Context {
	data := make(map[string]any, len(c.data)+1)
	for k, v := range c.data {
		data[k] = v
	}
	data[name] = value
	return &Context{data: data, filters: c.filters}
}

var exprPattern = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// Interpolate expands every `{{path | filter:arg | ...}}` expression in s.
func (c *Context) Interpolate(s string) string {
	return exprPattern.ReplaceAllStringFunc(s, func(expr string) string {
		inner := exprPattern.FindStringSubmatch(expr)[1]
		parts := strings.Split(inner, "|")
		path := strings.TrimSpace(parts[0])
		v := c.Lookup(path)
		for _, stage := range parts[1:] {
			stage = strings.TrimSpace(stage)
			name, args := parseFilterStage(stage)
			if fn, ok := c.filters[name]; ok {
				v = fn(v, args)
			}
		}
		return toStr(v)
	})
}

func parseFilterStage(stage string) (name string, args []string) {
	idx := strings.Index(stage, ":")
	if idx < 0 {
		return stage, nil
	}
	name = stage[:idx]
	rest := stage[idx+1:]
	for _, a := range strings.Split(rest, ",") {
		a = strings.TrimSpace(a)
		a = strings.Trim(a, `"'`)
		args = append(args, a)
	}
	return name, args
}

func (c *Context) eval(cmp Comparison) bool {
	v := c.Lookup(cmp.Path)
	switch cmp.Operator {
	case OpEq:
		return toStr(v) == toStr(cmp.Value)
	case OpNe:
		return toStr(v) != toStr(cmp.Value)
	case OpGt:
		return toFloat(v) > toFloat(cmp.Value)
	case OpLt:
		return toFloat(v) < toFloat(cmp.Value)
	case OpGte:
		return toFloat(v) >= toFloat(cmp.Value)
	case OpLte:
		return toFloat(v) <= toFloat(cmp.Value)
	default:
		return false
	}
}

// Resolve walks a tree, replacing every dynamic node (Template/If/Switch/
// For) with its concrete resolution against ctx, recursing into static
// containers' children. The result contains no dynamic nodes and is safe
// to pass to Measure/Layout; checkResolved turns any that survive into an
// Internal error.
func Resolve(n Node, ctx *Context) (Node, error) {
	if n == nil {
		return nil, nil
	}
	switch t := n.(type) {
	case *Template:
		data := ctx
		if t.Data != nil {
			if m, ok := t.Data.(map[string]any); ok {
				data = NewContext(m)
			}
		}
		return &Text{Content: data.Interpolate(t.TemplateStr), Style: t.Style}, nil

	case *If:
		if ctx.eval(t.Condition) {
			return Resolve(t.Then, ctx)
		}
		return Resolve(t.Else, ctx)

	case *Switch:
		v := toStr(ctx.Lookup(t.Path))
		if branch, ok := t.Cases[v]; ok {
			return Resolve(branch, ctx)
		}
		return Resolve(t.Default, ctx)

	case *For:
		items, ok := ctx.Lookup(t.Items).([]any)
		if !ok {
			return &Stack{}, nil
		}
		children := make([]Child, 0, len(items))
		for i, item := range items {
			itemCtx := ctx.child(t.As, item)
			resolved, err := Resolve(t.Render, itemCtx)
			if err != nil {
				return nil, err
			}
			if resolved != nil {
				children = append(children, Child{Node: resolved})
			}
			if t.Separator != nil && i < len(items)-1 {
				sep, err := Resolve(t.Separator, ctx)
				if err != nil {
					return nil, err
				}
				if sep != nil {
					children = append(children, Child{Node: sep})
				}
			}
		}
		return &Stack{Direction: Column, Children: children}, nil

	case *Stack:
		out := *t
		out.Children = make([]Child, 0, len(t.Children))
		for _, c := range t.Children {
			r, err := Resolve(c.Node, ctx)
			if err != nil {
				return nil, err
			}
			if r != nil {
				out.Children = append(out.Children, Child{Node: r, Style: c.Style})
			}
		}
		return &out, nil

	case *Flex:
		out := *t
		out.Children = make([]Child, 0, len(t.Children))
		for _, c := range t.Children {
			r, err := Resolve(c.Node, ctx)
			if err != nil {
				return nil, err
			}
			if r != nil {
				out.Children = append(out.Children, Child{Node: r, Style: c.Style})
			}
		}
		return &out, nil

	case *Grid:
		out := *t
		out.Rows = make([]GridRow, len(t.Rows))
		for ri, row := range t.Rows {
			newRow := row
			newRow.Cells = make([]GridCell, len(row.Cells))
			for ci, cell := range row.Cells {
				r, err := Resolve(cell.Node, ctx)
				if err != nil {
					return nil, err
				}
				newCell := cell
				newCell.Node = r
				newRow.Cells[ci] = newCell
			}
			out.Rows[ri] = newRow
		}
		return &out, nil

	default:
		// Text, Line, Spacer, Image, Barcode: no dynamic children.
		return n, nil
	}
}

// checkResolved returns an Internal error if a dynamic node is still
// present anywhere in the tree: reaching layout with one still unresolved
// indicates an upstream bug, so it is surfaced as a hard failure rather
// than silently skipped.
func checkResolved(n Node) error {
	switch t := n.(type) {
	case *Template, *If, *Switch, *For:
		return escperr.Internalf("unresolved dynamic node %T reached the layout stage", t)
	case *Stack:
		for _, c := range t.Children {
			if err := checkResolved(c.Node); err != nil {
				return err
			}
		}
	case *Flex:
		for _, c := range t.Children {
			if err := checkResolved(c.Node); err != nil {
				return err
			}
		}
	case *Grid:
		for _, row := range t.Rows {
			for _, cell := range row.Cells {
				if err := checkResolved(cell.Node); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
