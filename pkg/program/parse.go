/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: parse.go
Description: Deserialization of canonical program strings. Names are resolved to
semantics through a Resolver; the default resolver knows parameters, integer, boolean
and list literals, builtin operators and a caller supplied set of extra semantics.
*/

package program

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
)

// ErrSyntax is returned for malformed program strings.
var ErrSyntax = errors.New("program syntax error")

// Resolver maps an operator name to its semantics.
type Resolver interface {
	Resolve(name string) (semantics.Semantics, error)
}

// DefaultResolver resolves literals, parameters, extra semantics and builtins, in that order.
type DefaultResolver struct {
	ParamTypes []value.Type
	Extra      map[string]semantics.Semantics
}

// NewResolver creates a resolver for programs over parameters of the given types.
func NewResolver(paramTypes []value.Type, extra ...semantics.Semantics) *DefaultResolver {
	r := &DefaultResolver{ParamTypes: paramTypes, Extra: make(map[string]semantics.Semantics)}
	for _, s := range extra {
		r.Extra[s.Name()] = s
	}
	return r
}

// Resolve implements Resolver.
func (r *DefaultResolver) Resolve(name string) (semantics.Semantics, error) {
	if v, ok := ParseLiteral(name); ok {
		return semantics.NewConstant(v), nil
	}
	if rest, ok := strings.CutPrefix(name, "Param"); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= 0 {
			if i >= len(r.ParamTypes) {
				return nil, fmt.Errorf("%w: %s but only %d parameters", semantics.ErrUnknownSemantics, name, len(r.ParamTypes))
			}
			return semantics.NewParam(i, r.ParamTypes[i]), nil
		}
	}
	if s, ok := r.Extra[name]; ok {
		return s, nil
	}
	return semantics.Lookup(name)
}

// ParseLiteral parses an integer, boolean or list literal.
func ParseLiteral(s string) (value.Value, bool) {
	switch s {
	case "true":
		return value.Bool(true), true
	case "false":
		return value.Bool(false), true
	case "None":
		return value.None, true
	}
	if i, err := strconv.Atoi(s); err == nil {
		return value.Int(i), true
	}
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' && s != "[]" {
		parts := strings.Split(s[1:len(s)-1], ",")
		elems := make([]int, len(parts))
		for i, part := range parts {
			e, err := strconv.Atoi(part)
			if err != nil {
				return value.None, false
			}
			elems[i] = e
		}
		return value.List(elems), true
	}
	return value.None, false
}

// Parse deserializes a canonical program string.
func Parse(s string, r Resolver) (*Program, error) {
	p := &parser{src: s, r: r}
	prog, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: trailing input at offset %d in %q", ErrSyntax, p.pos, s)
	}
	return prog, nil
}

// MustParse is Parse that panics on error.
func MustParse(s string, r Resolver) *Program {
	p, err := Parse(s, r)
	if err != nil {
		panic(err)
	}
	return p
}

type parser struct {
	src string
	pos int
	r   Resolver
}

func (p *parser) name() string {
	start := p.pos
	if p.pos < len(p.src) && p.src[p.pos] == '[' && !strings.HasPrefix(p.src[p.pos:], "[]") {
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end >= 0 {
			p.pos += end + 1
			return p.src[start:p.pos]
		}
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == ',' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) parse() (*Program, error) {
	name := p.name()
	if name == "" {
		return nil, fmt.Errorf("%w: expected name at offset %d in %q", ErrSyntax, p.pos, p.src)
	}
	sem, err := p.r.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", name, err)
	}
	var sub []*Program
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		p.pos++
		for {
			child, err := p.parse()
			if err != nil {
				return nil, err
			}
			sub = append(sub, child)
			if p.pos >= len(p.src) {
				return nil, fmt.Errorf("%w: unterminated argument list in %q", ErrSyntax, p.src)
			}
			if p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.src[p.pos] == ')' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, p.src[p.pos], p.pos)
		}
	}
	if len(sub) > len(sem.InputTypes()) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrSyntax, name, len(sem.InputTypes()), len(sub))
	}
	return &Program{Semantics: sem, Sub: sub}, nil
}
