package types

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ParseType reads a type expression as written in annotations and signature
// files: bare names, `T?`, `A | B`, `A & B`, `Base[T, U]`, `(A, B) -> C`,
// and tuple shapes `[A, B, *C]`.
func ParseType(src string) (Type, error) {
	p := &typeParser{src: src}
	t, err := p.union()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errors.Errorf("unexpected %q in type expression %q", p.src[p.pos:], src)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return errors.Errorf("expected %q at offset %d of %q", string(c), p.pos, p.src)
	}
	p.pos++
	return nil
}

func (p *typeParser) union() (Type, error) {
	first, err := p.intersection()
	if err != nil {
		return nil, err
	}
	members := []Type{first}
	for {
		p.skipSpace()
		if p.peek() != '|' {
			break
		}
		p.pos++
		next, err := p.intersection()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return NewUnion(members...), nil
}

func (p *typeParser) intersection() (Type, error) {
	first, err := p.postfix()
	if err != nil {
		return nil, err
	}
	members := []Type{first}
	for {
		p.skipSpace()
		if p.peek() != '&' {
			break
		}
		p.pos++
		next, err := p.postfix()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return NewIntersection(members...), nil
}

// postfix handles the `?` suffix and generic argument lists.
func (p *typeParser) postfix() (Type, error) {
	t, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '?':
			p.pos++
			t = &Nullable{Inner: t}
		case '[':
			base, ok := t.(*Concrete)
			if !ok {
				return nil, errors.Errorf("type arguments on non-base type %q in %q", t, p.src)
			}
			args, err := p.list('[', ']')
			if err != nil {
				return nil, err
			}
			t = &Generic{Base: base.Name, Args: args}
		default:
			return t, nil
		}
	}
}

func (p *typeParser) primary() (Type, error) {
	p.skipSpace()
	switch {
	case p.peek() == '(':
		params, err := p.list('(', ')')
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if strings.HasPrefix(p.src[p.pos:], "->") {
			p.pos += 2
			ret, err := p.union()
			if err != nil {
				return nil, err
			}
			return &Function{Params: params, Return: ret}, nil
		}
		if len(params) == 1 {
			return params[0], nil
		}
		return nil, errors.Errorf("expected -> after parameter list in %q", p.src)
	case p.peek() == '[':
		elems, err := p.list('[', ']')
		if err != nil {
			return nil, err
		}
		for i, e := range elems {
			if _, ok := e.(*Rest); ok && i != len(elems)-1 {
				return nil, errors.Errorf("rest element must be last in tuple %q", p.src)
			}
		}
		return NewTuple(elems...), nil
	case p.peek() == '*':
		p.pos++
		inner, err := p.postfix()
		if err != nil {
			return nil, err
		}
		return &Rest{Elem: inner}, nil
	default:
		return p.name()
	}
}

func (p *typeParser) list(open, end byte) ([]Type, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}
	var items []Type
	p.skipSpace()
	if p.peek() == end {
		p.pos++
		return items, nil
	}
	for {
		item, err := p.union()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(end); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *typeParser) name() (Type, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return nil, errors.Errorf("expected a type name at offset %d of %q", p.pos, p.src)
	}
	return NewConcrete(p.src[start:p.pos]), nil
}
