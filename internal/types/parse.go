package types

import (
	"fmt"
	"strings"
)

// ParseType parses a type's canonical String() form back into a Type
// (spec §3.3 "Every type round-trips through its toString form and
// typeFromString reparse"). Whitespace after commas is canonical; this
// parser tolerates extra whitespace anywhere for robustness.
func ParseType(s string) (Type, error) {
	p := &typeParser{src: []rune(strings.TrimSpace(s))}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("typeFromString: unexpected trailing input %q", string(p.src[p.pos:]))
	}
	return t, nil
}

type typeParser struct {
	src []rune
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) parseUnion() (Type, error) {
	first, err := p.parseFunctionOrAtom()
	if err != nil {
		return nil, err
	}
	members := []Type{first}
	for {
		p.skipSpace()
		if p.peek() != '|' {
			break
		}
		p.pos++ // consume '|'
		next, err := p.parseFunctionOrAtom()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return Union{Members: members}, nil
}

func (p *typeParser) parseFunctionOrAtom() (Type, error) {
	p.skipSpace()
	if strings.HasPrefix(string(p.src[p.pos:]), "fn(") {
		return p.parseFunction()
	}
	if p.peek() == '(' {
		return p.parseTuple()
	}
	return p.parseNamed()
}

func (p *typeParser) parseFunction() (Type, error) {
	p.pos += 2 // "fn"
	params, err := p.parseParenList()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !strings.HasPrefix(string(p.src[p.pos:]), "->") {
		return nil, fmt.Errorf("typeFromString: expected '->' in function type")
	}
	p.pos += 2
	ret, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	return Function{Params: params, Ret: ret}, nil
}

func (p *typeParser) parseTuple() (Type, error) {
	elems, err := p.parseParenList()
	if err != nil {
		return nil, err
	}
	return Tuple{Elems: elems}, nil
}

func (p *typeParser) parseParenList() ([]Type, error) {
	p.skipSpace()
	if p.peek() != '(' {
		return nil, fmt.Errorf("typeFromString: expected '('")
	}
	p.pos++
	var out []Type
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return out, nil
	}
	for {
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		break
	}
	p.skipSpace()
	if p.peek() != ')' {
		return nil, fmt.Errorf("typeFromString: expected ')'")
	}
	p.pos++
	return out, nil
}

func (p *typeParser) parseNamed() (Type, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && (isIdentRune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("typeFromString: expected a type name at %q", string(p.src[p.pos:]))
	}
	name := string(p.src[start:p.pos])

	var args []Type
	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			t, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			args = append(args, t)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				p.skipSpace()
				continue
			}
			break
		}
		p.skipSpace()
		if p.peek() != '>' {
			return nil, fmt.Errorf("typeFromString: expected '>' closing %q", name)
		}
		p.pos++
	}

	switch name {
	case "Nil":
		return Nil, nil
	case "Any":
		return Any, nil
	case "Unknown":
		return Unknown, nil
	case "Int", "Float", "String", "Bool":
		return Primitive{Name: name}, nil
	case "Array":
		if len(args) != 1 {
			return nil, fmt.Errorf("typeFromString: Array requires exactly one element type")
		}
		return Array{Elem: args[0]}, nil
	}
	return Generic{Base: name, Args: args}, nil
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
