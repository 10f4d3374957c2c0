// Package ast defines the syntax tree produced by the parser: modules,
// top-level declarations, expressions, patterns and the surface type
// grammar. Every node that needs a stable identity embeds an Identity,
// which pairs a monotonic NodeId with the Span it was parsed from.
package ast

import (
	"fmt"
	"strings"

	"github.com/Champii/Rock-sub001/internal/ident"
)

// Pos is a single point in a source file.
type Pos struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open range [Start, End) in a source file.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column)
}

// Identity is the handle diagnostics attach to: a NodeId plus the Span it
// was parsed from. Every AST node that can be the target of a diagnostic
// or a resolution carries one.
type Identity struct {
	NodeID ident.NodeId
	Span   Span
}

// Node is the base interface every AST node implements.
type Node interface {
	String() string
	Identity() Identity
}

// Root is the top of one parsed module tree (one file plus its `mod`
// children, already parsed and attached).
type Root struct {
	Mod   *Mod
	Ident Identity
}

func (r *Root) String() string    { return r.Mod.String() }
func (r *Root) Identity() Identity { return r.Ident }

// Mod holds the ordered top-level declarations of one module (file).
type Mod struct {
	Path      IdentifierPath // dotted path of this module from the entry module
	TopLevels []*TopLevel
	Ident     Identity
}

func (m *Mod) String() string {
	parts := make([]string, len(m.TopLevels))
	for i, t := range m.TopLevels {
		parts[i] = t.String()
	}
	return strings.Join(parts, "\n")
}
func (m *Mod) Identity() Identity { return m.Ident }

// TopLevelKind discriminates the TopLevel sum type.
type TopLevelKind int

const (
	TopFunction TopLevelKind = iota
	TopPrototype
	TopUse
	TopMod
	TopTrait
	TopImpl
	TopStruct
	TopInfix
)

// TopLevel wraps one of: Function | Prototype | Use | Mod(name, Mod) |
// Trait | Impl | Struct | Infix(name, precedence).
type TopLevel struct {
	Kind  TopLevelKind
	Ident Identity

	Function  *FunctionDecl // TopFunction
	Prototype *Prototype    // TopPrototype
	Use       *UseDecl      // TopUse
	ModName   *Identifier   // TopMod
	SubMod    *Mod          // TopMod
	Trait     *TraitDecl    // TopTrait
	Impl      *ImplDecl     // TopImpl
	Struct    *StructDecl   // TopStruct
	InfixName *Identifier   // TopInfix
	InfixPrec uint8         // TopInfix
}

func (t *TopLevel) String() string {
	switch t.Kind {
	case TopFunction:
		return t.Function.String()
	case TopPrototype:
		return t.Prototype.String()
	case TopUse:
		return t.Use.String()
	case TopMod:
		return fmt.Sprintf("mod %s", t.ModName.Name)
	case TopTrait:
		return t.Trait.String()
	case TopImpl:
		return t.Impl.String()
	case TopStruct:
		return t.Struct.String()
	case TopInfix:
		return fmt.Sprintf("infix %s %d", t.InfixName.Name, t.InfixPrec)
	}
	return "<invalid top level>"
}
func (t *TopLevel) Identity() Identity { return t.Ident }

// IdentifierPath is a dotted module path, e.g. "root::foo::bar", used to
// key per-module scope chains and to name impls/uses.
type IdentifierPath struct {
	Parts []string
	Ident Identity
}

// NewRootPath returns the path of the entry module.
func NewRootPath() IdentifierPath { return IdentifierPath{Parts: []string{"root"}} }

// Child returns the path extended with one more segment.
func (p IdentifierPath) Child(name string) IdentifierPath {
	parts := make([]string, len(p.Parts)+1)
	copy(parts, p.Parts)
	parts[len(p.Parts)] = name
	return IdentifierPath{Parts: parts}
}

func (p IdentifierPath) String() string { return strings.Join(p.Parts, "::") }

// Identifier is a name use or binding occurrence.
type Identifier struct {
	Name  string
	Ident Identity
}

func (i *Identifier) String() string     { return i.Name }
func (i *Identifier) Identity() Identity { return i.Ident }

// UseDecl is `use path::(a, b, *)`. Symbols is empty and Wildcard is true
// when the source wrote `(*)`.
type UseDecl struct {
	Path     IdentifierPath
	Symbols  []string
	Wildcard bool
	Ident    Identity
}

func (u *UseDecl) String() string {
	if u.Wildcard {
		return fmt.Sprintf("use %s::(*)", u.Path)
	}
	return fmt.Sprintf("use %s::(%s)", u.Path, strings.Join(u.Symbols, ", "))
}
func (u *UseDecl) Identity() Identity { return u.Ident }

// ArgumentDecl is one formal parameter of a function.
type ArgumentDecl struct {
	Name  *Identifier
	Type  Type // nil if unannotated; inferred
	Ident Identity
}

func (a *ArgumentDecl) String() string { return a.Name.Name }

// FunctionDecl is `name arg1 arg2 = body`, with an optional parsed
// signature (filled in when the source annotates argument/return types).
type FunctionDecl struct {
	Name      *Identifier
	Arguments []*ArgumentDecl
	Body      *Body
	Signature *TypeSignature // optional surface annotation
	Ident     Identity
}

func (f *FunctionDecl) String() string {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s %s = %s", f.Name.Name, strings.Join(args, " "), f.Body)
}
func (f *FunctionDecl) Identity() Identity { return f.Ident }

// Prototype is a function declared with a signature but no body
// (`name : (ArgT, ...) -> RetT`).
type Prototype struct {
	Name      *Identifier
	Signature *TypeSignature
	Ident     Identity
}

func (p *Prototype) String() string { return fmt.Sprintf("%s : %s", p.Name.Name, p.Signature) }
func (p *Prototype) Identity() Identity { return p.Ident }

// TypeSignature is the surface `(ArgT, ArgT) -> RetT` annotation.
type TypeSignature struct {
	Arguments []Type
	Ret       Type
	Ident     Identity
}

func (t *TypeSignature) String() string {
	args := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(args, ", "), t.Ret)
}

// TraitDecl is `trait Name(T) { defs...; default impls... }`.
type TraitDecl struct {
	Name         *Identifier
	TypeArgument *Identifier
	Defs         []*Prototype
	DefaultImpl  []*FunctionDecl
	Ident        Identity
}

func (t *TraitDecl) String() string { return fmt.Sprintf("trait %s", t.Name.Name) }
func (t *TraitDecl) Identity() Identity { return t.Ident }

// ImplDecl is `impl Name for Types { defs... }`. Types empty means an
// inherent impl; non-empty means a trait impl of Name for those types.
type ImplDecl struct {
	Name  *Identifier
	Types []Type
	Defs  []*FunctionDecl
	Ident Identity
}

func (i *ImplDecl) String() string { return fmt.Sprintf("impl %s", i.Name.Name) }
func (i *ImplDecl) Identity() Identity { return i.Ident }

// StructDecl is `struct Name { field: Type, ... }`.
type StructDecl struct {
	Name  *Identifier
	Defs  []*StructField
	Ident Identity
}

func (s *StructDecl) String() string { return fmt.Sprintf("struct %s", s.Name.Name) }
func (s *StructDecl) Identity() Identity { return s.Ident }

// StructField is one declared field of a struct.
type StructField struct {
	Name  *Identifier
	Type  Type
	Ident Identity
}

// Body is a linear sequence of statements; the last statement's value is
// the body's value.
type Body struct {
	Statements []*Statement
	Ident      Identity
}

func (b *Body) String() string {
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}
func (b *Body) Identity() Identity { return b.Ident }

// StatementKind discriminates Statement.
type StatementKind int

const (
	StmtIf StatementKind = iota
	StmtFor
	StmtForIn
	StmtWhile
	StmtAssign
	StmtExpression
)

// Statement wraps If | For | ForIn | While | Assign | Expression.
type Statement struct {
	Kind  StatementKind
	Ident Identity

	If         *If
	For        *For
	ForIn      *ForIn
	While      *While
	Assign     *Assign
	Expression *Expression
}

func (s *Statement) String() string {
	switch s.Kind {
	case StmtIf:
		return s.If.String()
	case StmtFor:
		return s.For.String()
	case StmtForIn:
		return s.ForIn.String()
	case StmtWhile:
		return s.While.String()
	case StmtAssign:
		return s.Assign.String()
	case StmtExpression:
		return s.Expression.String()
	}
	return "<invalid statement>"
}
func (s *Statement) Identity() Identity { return s.Ident }

// If is `if pred then body [else elseBranch]`. Else is nil when the
// source omitted it (legal only as a statement, not nested in an
// expression context the surrounding parser requires a value from).
type If struct {
	Predicate *Expression
	Then      *Body
	Else      *Else
	Ident     Identity
}

func (i *If) String() string {
	if i.Else == nil {
		return fmt.Sprintf("if %s then %s", i.Predicate, i.Then)
	}
	return fmt.Sprintf("if %s then %s else %s", i.Predicate, i.Then, i.Else)
}
func (i *If) Identity() Identity { return i.Ident }

// Else wraps either another If (else-if chaining) or a terminal Body.
type Else struct {
	If    *If
	Body  *Body
	Ident Identity
}

func (e *Else) String() string {
	if e.If != nil {
		return e.If.String()
	}
	return e.Body.String()
}

// For is a C-style `for init; cond; step { body }` loop.
type For struct {
	Init  *Statement
	Cond  *Expression
	Step  *Statement
	Body  *Body
	Ident Identity
}

func (f *For) String() string { return fmt.Sprintf("for ... { %s }", f.Body) }
func (f *For) Identity() Identity { return f.Ident }

// ForIn is `for name in iterable { body }`.
type ForIn struct {
	Name     *Identifier
	Iterable *Expression
	Body     *Body
	Ident    Identity
}

func (f *ForIn) String() string {
	return fmt.Sprintf("for %s in %s { %s }", f.Name.Name, f.Iterable, f.Body)
}
func (f *ForIn) Identity() Identity { return f.Ident }

// While is `while cond { body }`.
type While struct {
	Cond  *Expression
	Body  *Body
	Ident Identity
}

func (w *While) String() string { return fmt.Sprintf("while %s { %s }", w.Cond, w.Body) }
func (w *While) Identity() Identity { return w.Ident }

// Assign is `name = value` (a binding introduction or rebind in the
// current scope).
type Assign struct {
	Name  *Identifier
	Type  Type // optional annotation
	Value *Expression
	Ident Identity
}

func (a *Assign) String() string { return fmt.Sprintf("%s = %s", a.Name.Name, a.Value) }
func (a *Assign) Identity() Identity { return a.Ident }

// Expression composes a UnaryExpr with an optional binary-operator
// continuation: `unary [op expression]`.
type Expression struct {
	Left  *UnaryExpr
	Op    string // "" if no continuation
	Right *Expression
	Ident Identity
}

func (e *Expression) String() string {
	if e.Op == "" {
		return e.Left.String()
	}
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}
func (e *Expression) Identity() Identity { return e.Ident }

// GetTerminalIdentity returns the expression's own identity (e.Ident);
// it does not walk into the unary/primary chain.
func (e *Expression) GetTerminalIdentity() Identity { return e.Ident }

// UnaryExpr is either a bare PrimaryExpr or a prefix operator applied to
// another UnaryExpr (e.g. `-x`, `!x`).
type UnaryExpr struct {
	Op      string // "" if this is a bare primary
	Operand *UnaryExpr
	Primary *PrimaryExpr
	Ident   Identity
}

func (u *UnaryExpr) String() string {
	if u.Op == "" {
		return u.Primary.String()
	}
	return fmt.Sprintf("%s%s", u.Op, u.Operand)
}
func (u *UnaryExpr) Identity() Identity { return u.Ident }

// PrimaryExpr is an Operand followed by zero or more secondary
// expressions: selectors, call argument lists, or indices.
type PrimaryExpr struct {
	Operand     *Operand
	Secondaries []*SecondaryExpr
	Ident       Identity
}

func (p *PrimaryExpr) String() string {
	var b strings.Builder
	b.WriteString(p.Operand.String())
	for _, s := range p.Secondaries {
		b.WriteString(s.String())
	}
	return b.String()
}
func (p *PrimaryExpr) Identity() Identity { return p.Ident }

// SecondaryKind discriminates SecondaryExpr.
type SecondaryKind int

const (
	SecondarySelector SecondaryKind = iota
	SecondaryArguments
	SecondaryIndex
)

// SecondaryExpr is a selector (`.field`), a call argument list
// (`(a, b)`), or an index (`[i]`) following a primary operand.
type SecondaryExpr struct {
	Kind     SecondaryKind
	Selector string
	Args     []*Expression
	Index    *Expression
	Ident    Identity
}

func (s *SecondaryExpr) String() string {
	switch s.Kind {
	case SecondarySelector:
		return "." + s.Selector
	case SecondaryArguments:
		parts := make([]string, len(s.Args))
		for i, a := range s.Args {
			parts[i] = a.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case SecondaryIndex:
		return fmt.Sprintf("[%s]", s.Index)
	}
	return "<invalid secondary>"
}

// OperandKind discriminates Operand.
type OperandKind int

const (
	OperandLiteral OperandKind = iota
	OperandIdentifier
	OperandExpression // parenthesized
	OperandIf         // `if ... then ... else ...` as an expression
	OperandStructInit // `Name { field = value, ... }`
)

// Operand is the innermost unit a PrimaryExpr applies secondaries to.
type Operand struct {
	Kind       OperandKind
	Literal    *Literal
	Identifier *Identifier
	Expression *Expression
	If         *If
	StructInit *StructInit
	Ident      Identity
}

func (o *Operand) String() string {
	switch o.Kind {
	case OperandLiteral:
		return o.Literal.String()
	case OperandIdentifier:
		return o.Identifier.Name
	case OperandExpression:
		return "(" + o.Expression.String() + ")"
	case OperandIf:
		return o.If.String()
	case OperandStructInit:
		return o.StructInit.String()
	}
	return "<invalid operand>"
}
func (o *Operand) Identity() Identity { return o.Ident }

// StructInit is `Name { field = value, ... }`.
type StructInit struct {
	Name   *Identifier
	Fields map[string]*Expression
	Order  []string // field names in source order, for deterministic lowering
	Ident  Identity
}

func (s *StructInit) String() string {
	parts := make([]string, 0, len(s.Order))
	for _, name := range s.Order {
		parts = append(parts, fmt.Sprintf("%s = %s", name, s.Fields[name]))
	}
	return fmt.Sprintf("%s { %s }", s.Name.Name, strings.Join(parts, ", "))
}
func (s *StructInit) Identity() Identity { return s.Ident }

// LiteralKind discriminates Literal.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
	CharLit
)

// Literal is a scalar constant appearing in source.
type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Ident Identity
}

func (l *Literal) String() string     { return fmt.Sprintf("%v", l.Value) }
func (l *Literal) Identity() Identity { return l.Ident }
