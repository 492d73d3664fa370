package ir

import (
	"strconv"
	"strings"
)

func (n *IntLit) CanonicalSyntax() string    { return strconv.FormatInt(n.Value, 10) }
func (n *FloatLit) CanonicalSyntax() string  { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *StringLit) CanonicalSyntax() string { return strconv.Quote(n.Value) }
func (n *SymbolLit) CanonicalSyntax() string { return ":" + n.Name }
func (n *NilLit) CanonicalSyntax() string    { return "nil" }
func (n *ConstRef) CanonicalSyntax() string  { return n.Name }

func (n *BoolLit) CanonicalSyntax() string {
	if n.Value {
		return "true"
	}
	return "false"
}

func (n *VarRef) CanonicalSyntax() string {
	switch n.Tier {
	case TierInstance:
		return "@" + n.Name
	case TierClass:
		return "@@" + n.Name
	default:
		return n.Name
	}
}

func (n *Assign) CanonicalSyntax() string {
	return n.Target.CanonicalSyntax() + " = " + syntaxOf(n.Value)
}

func (n *BinaryOp) CanonicalSyntax() string {
	return syntaxOf(n.Left) + " " + string(n.Op) + " " + syntaxOf(n.Right)
}

// CanonicalSyntax renders receiver calls the way the dialect writes them:
// predicate-style calls without arguments keep no parentheses, so guard
// shapes like `x.nil?` round-trip exactly.
func (n *MethodCall) CanonicalSyntax() string {
	sb := strings.Builder{}
	if n.Receiver != nil {
		sb.WriteString(syntaxOf(n.Receiver))
		sb.WriteString(".")
	}
	sb.WriteString(n.Name)
	if len(n.Args) > 0 {
		sb.WriteString("(")
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(syntaxOf(arg))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func (n *ArrayLit) CanonicalSyntax() string {
	sb := strings.Builder{}
	sb.WriteString("[")
	for i, elem := range n.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(syntaxOf(elem))
	}
	sb.WriteString("]")
	return sb.String()
}

func (n *HashLit) CanonicalSyntax() string {
	sb := strings.Builder{}
	sb.WriteString("{")
	for i, entry := range n.Entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(syntaxOf(entry.Key))
		sb.WriteString(" => ")
		sb.WriteString(syntaxOf(entry.Value))
	}
	sb.WriteString("}")
	return sb.String()
}

func (n *If) CanonicalSyntax() string {
	sb := strings.Builder{}
	sb.WriteString("if ")
	sb.WriteString(syntaxOf(n.Cond))
	sb.WriteString(" then ")
	sb.WriteString(syntaxOf(n.Then))
	if n.Else != nil {
		sb.WriteString(" else ")
		sb.WriteString(syntaxOf(n.Else))
	}
	sb.WriteString(" end")
	return sb.String()
}

func (n *Return) CanonicalSyntax() string {
	if n.Value == nil {
		return "return"
	}
	return "return " + syntaxOf(n.Value)
}

func (n *Block) CanonicalSyntax() string {
	parts := make([]string, len(n.Stmts))
	for i, stmt := range n.Stmts {
		parts[i] = syntaxOf(stmt)
	}
	return strings.Join(parts, "; ")
}

func (n *MethodDef) CanonicalSyntax() string {
	sb := strings.Builder{}
	sb.WriteString("def ")
	sb.WriteString(n.Name)
	sb.WriteString("(")
	for i, p := range n.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if p.TypeName != "" {
			sb.WriteString(": ")
			sb.WriteString(p.TypeName)
		}
	}
	sb.WriteString(")")
	if n.ReturnName != "" {
		sb.WriteString(" -> ")
		sb.WriteString(n.ReturnName)
	}
	return sb.String()
}

func syntaxOf(n Node) string {
	if n == nil {
		return "nil"
	}
	return n.CanonicalSyntax()
}
