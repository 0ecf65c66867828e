package pkgspec

import (
	"fmt"
	"strings"
)

// ContextEvaluator sets a Package's priority field from its context
// expression and the current context list. The real LCFG context-expression
// grammar is an external collaborator (spec.md §1): this package only
// depends on the pure-function contract eval(expr, ctxlist) -> priority.
type ContextEvaluator interface {
	EvalPriority(expr string, ctx []string) (int, error)
}

// ContextEvaluatorFunc adapts a plain function to ContextEvaluator.
type ContextEvaluatorFunc func(expr string, ctx []string) (int, error)

func (f ContextEvaluatorFunc) EvalPriority(expr string, ctx []string) (int, error) {
	return f(expr, ctx)
}

// DefaultContextEvaluator is a minimal stand-in for the real LCFG
// context-expression engine. It understands a tiny boolean grammar over
// context tags: "tag", "!tag", "a&b", "a|b", and parenthesization, and
// returns 1 when the expression holds against ctx, -1 otherwise (so that a
// RuleUsePriority merge of two otherwise-identical packages favors the one
// whose context currently applies). '!' binds most tightly, then '&', then
// '|'; parentheses group explicitly. Nothing beyond this grammar is
// understood, since fleshing out a full grammar is explicitly out of scope
// (spec.md §1).
type DefaultContextEvaluator struct{}

func (DefaultContextEvaluator) EvalPriority(expr string, ctx []string) (int, error) {
	ok, err := evalContextExpr(expr, ctx)
	if err != nil {
		return 0, err
	}
	if ok {
		return 1, nil
	}
	return -1, nil
}

func evalContextExpr(expr string, ctx []string) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true, nil
	}
	set := make(map[string]bool, len(ctx))
	for _, c := range ctx {
		set[c] = true
	}
	toks, err := tokenizeContext(expr)
	if err != nil {
		return false, err
	}
	p := &contextParser{toks: toks, set: set}
	val, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if p.pos != len(p.toks) {
		return false, fmt.Errorf("unexpected trailing tokens in context expression %q", expr)
	}
	return val, nil
}

type contextParser struct {
	toks []string
	pos  int
	set  map[string]bool
}

func (p *contextParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *contextParser) parseOr() (bool, error) {
	v, err := p.parseAnd()
	if err != nil {
		return false, err
	}
	for p.peek() == "|" {
		p.pos++
		rhs, err := p.parseAnd()
		if err != nil {
			return false, err
		}
		v = v || rhs
	}
	return v, nil
}

func (p *contextParser) parseAnd() (bool, error) {
	v, err := p.parseUnary()
	if err != nil {
		return false, err
	}
	for p.peek() == "&" {
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return false, err
		}
		v = v && rhs
	}
	return v, nil
}

func (p *contextParser) parseUnary() (bool, error) {
	if p.peek() == "!" {
		p.pos++
		v, err := p.parseUnary()
		return !v, err
	}
	if p.peek() == "(" {
		p.pos++
		v, err := p.parseOr()
		if err != nil {
			return false, err
		}
		if p.peek() != ")" {
			return false, fmt.Errorf("unmatched '(' in context expression")
		}
		p.pos++
		return v, nil
	}
	tag := p.peek()
	if tag == "" {
		return false, fmt.Errorf("unexpected end of context expression")
	}
	p.pos++
	return p.set[tag], nil
}

func tokenizeContext(expr string) ([]string, error) {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch c {
		case '&', '|', '!', '(', ')':
			flush()
			toks = append(toks, string(c))
		case ' ', '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return toks, nil
}
