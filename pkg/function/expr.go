package function

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"
)

// ErrSyntax is the sentinel wrapped by every *SyntaxError.
var ErrSyntax = errors.New("syntax error")

const (
	// MaxLength is the longest expression text accepted.
	MaxLength = 4096
	// MaxDepth bounds open parentheses plus pending unary signs.
	MaxDepth = 256
)

// SyntaxError describes a malformed expression. Pos is a byte offset into
// the expression text.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d in %q: %s", e.Pos, e.Expr, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// program is a compiled expression of one free variable. Each evaluation
// borrows a VM and environment from the pool.
type program struct {
	prog *vm.Program
	name string
	pool sync.Pool
}

type machine struct {
	vm  vm.VM
	env map[string]any
}

func (p *program) eval(t float64) float64 {
	m := p.pool.Get().(*machine)
	defer p.pool.Put(m)
	m.env[p.name] = t
	out, err := m.vm.Run(p.prog, m.env)
	if err != nil {
		return math.NaN()
	}
	return toFloat(out)
}

// environment binds the constants and the free variable v.
func environment(v string) map[string]any {
	env := make(map[string]any, len(constants)+1)
	for k, c := range constants {
		env[k] = c
	}
	env[v] = 0.0
	return env
}

// compile parses src as an expression of the single variable named v.
func compile(src, v string) (*program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &SyntaxError{Expr: src, Msg: "empty expression"}
	}
	if len(src) > MaxLength {
		return nil, &SyntaxError{
			Expr: src[:32] + "...",
			Pos:  MaxLength,
			Msg:  fmt.Sprintf("expression longer than %d bytes", MaxLength),
		}
	}
	if err := checkDepth(src); err != nil {
		return nil, err
	}

	norm, inserted := leadingZero(src)
	opts := append([]expr.Option{
		expr.Env(environment(v)),
		expr.AsFloat64(),
		expr.DisableAllBuiltins(),
	}, builtinOptions()...)
	prog, err := expr.Compile(norm, opts...)
	if err != nil {
		return nil, syntaxError(src, inserted, err)
	}

	p := &program{prog: prog, name: v}
	p.pool.New = func() any {
		return &machine{env: environment(v)}
	}
	return p, nil
}

func syntaxError(src string, inserted []int, err error) error {
	var fe *file.Error
	if !errors.As(err, &fe) {
		return &SyntaxError{Expr: src, Msg: err.Error()}
	}
	pos := fe.Column
	for _, at := range inserted {
		if at < pos {
			pos--
		}
	}
	pos = max(0, min(pos, len(src)))
	return &SyntaxError{Expr: src, Pos: pos, Msg: fe.Message}
}

// checkDepth rejects text that would make the parser recurse more than
// MaxDepth levels. The scan is lexical; anything it lets through is still
// checked by the compiler.
func checkDepth(src string) error {
	var (
		depth   int   // open parens plus pending unary signs
		pending int   // unary signs at the current paren level
		outer   []int // pending counts of enclosing levels
		operand bool  // the last token can end an operand
	)
	for i := 0; i < len(src); i++ {
		switch c := src[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			continue
		case c == '(':
			outer = append(outer, pending)
			pending = 0
			depth++
			operand = false
		case c == ')':
			if len(outer) == 0 {
				return nil
			}
			depth -= 1 + pending
			pending = outer[len(outer)-1]
			outer = outer[:len(outer)-1]
			operand = true
		case (c == '-' || c == '+' || c == '!') && !operand:
			pending++
			depth++
		case strings.IndexByte("+-*/%^,<>=!&|?:", c) >= 0:
			depth -= pending
			pending = 0
			operand = false
		default:
			operand = true
		}
		if depth > MaxDepth {
			return &SyntaxError{Expr: src, Pos: i, Msg: fmt.Sprintf("expression nested deeper than %d", MaxDepth)}
		}
	}
	return nil
}

// leadingZero rewrites numbers written as ".5" to "0.5". It returns the
// rewritten text and the offsets in src where a zero was inserted.
func leadingZero(src string) (string, []int) {
	var (
		b        strings.Builder
		inserted []int
	)
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '.' && i+1 < len(src) && isDigit(src[i+1]) && (i == 0 || !isWordChar(src[i-1])) {
			b.WriteByte('0')
			inserted = append(inserted, b.Len()-1)
		}
		b.WriteByte(c)
	}
	return b.String(), inserted
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordChar(c byte) bool {
	return isDigit(c) || c == '_' || c == '.' || c == ')' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return math.NaN()
}
