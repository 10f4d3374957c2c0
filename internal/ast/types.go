package ast

import (
	"fmt"
	"strings"
)

// Type is the surface type grammar: Primitive | Func | Struct | ForAll |
// Trait. It also doubles as the solved-type representation threaded
// through inference (internal/infer substitutes ForAll variables away).
type Type interface {
	Node
	typeNode()
	// IsSolved reports whether this type contains no unresolved type
	// variables (no ForAll reachable from it).
	IsSolved() bool
}

// PrimitiveKind enumerates the builtin scalar and array types.
type PrimitiveKind int

const (
	Void PrimitiveKind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	// Int is an alias for Int64.
	Int
	Float64
	String
	Char
	Array
)

var primitiveNames = map[PrimitiveKind]string{
	Void:    "Void",
	Bool:    "Bool",
	Int8:    "Int8",
	Int16:   "Int16",
	Int32:   "Int32",
	Int64:   "Int64",
	Int:     "Int64",
	Float64: "Float64",
	String:  "String",
	Char:    "Char",
	Array:   "Array",
}

// PrimitiveType is a builtin scalar, or an Array(Elem, N).
type PrimitiveType struct {
	Kind  PrimitiveKind
	Elem  Type // non-nil only when Kind == Array
	Size  int  // valid only when Kind == Array
	Ident Identity
}

func NewPrimitive(kind PrimitiveKind) *PrimitiveType { return &PrimitiveType{Kind: kind} }

func NewArray(elem Type, size int) *PrimitiveType {
	return &PrimitiveType{Kind: Array, Elem: elem, Size: size}
}

func (p *PrimitiveType) String() string {
	if p.Kind == Array {
		return fmt.Sprintf("[%s; %d]", p.Elem, p.Size)
	}
	return primitiveNames[p.Kind]
}
func (p *PrimitiveType) Identity() Identity { return p.Ident }
func (*PrimitiveType) typeNode()            {}
func (p *PrimitiveType) IsSolved() bool {
	if p.Kind == Array {
		return p.Elem.IsSolved()
	}
	return true
}

// FuncType is a function signature: name plus ordered argument types and
// a return type.
type FuncType struct {
	Name      string
	Arguments []Type
	Ret       Type
	Ident     Identity
}

func (f *FuncType) String() string {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(args, ", "), f.Ret)
}
func (f *FuncType) Identity() Identity { return f.Ident }
func (*FuncType) typeNode()            {}
func (f *FuncType) IsSolved() bool {
	if f.Ret == nil || !f.Ret.IsSolved() {
		return false
	}
	for _, a := range f.Arguments {
		if a == nil || !a.IsSolved() {
			return false
		}
	}
	return true
}

// StructType is a named product of fields, kept in declaration order so
// mangling and diagnostics are deterministic.
type StructType struct {
	Name  string
	Order []string
	Defs  map[string]Type
	Ident Identity
}

func NewStructType(name string) *StructType {
	return &StructType{Name: name, Defs: map[string]Type{}}
}

func (s *StructType) AddField(name string, t Type) {
	if _, exists := s.Defs[name]; !exists {
		s.Order = append(s.Order, name)
	}
	s.Defs[name] = t
}

func (s *StructType) String() string {
	parts := make([]string, 0, len(s.Order))
	for _, name := range s.Order {
		parts = append(parts, fmt.Sprintf("%s: %s", name, s.Defs[name]))
	}
	return fmt.Sprintf("%s { %s }", s.Name, strings.Join(parts, ", "))
}
func (s *StructType) Identity() Identity { return s.Ident }
func (*StructType) typeNode()            {}
func (s *StructType) IsSolved() bool {
	for _, name := range s.Order {
		if t := s.Defs[name]; t == nil || !t.IsSolved() {
			return false
		}
	}
	return true
}

// ForAllType is an unresolved type variable, identified by a stable
// integer id assigned by the union-find table in internal/infer.
type ForAllType struct {
	Var   int
	Ident Identity
}

func (f *ForAllType) String() string     { return fmt.Sprintf("'t%d", f.Var) }
func (f *ForAllType) Identity() Identity { return f.Ident }
func (*ForAllType) typeNode()            {}
func (*ForAllType) IsSolved() bool       { return false }

// TraitType names a trait used as a type-level constraint (e.g. as a
// Prototype's declared argument bound).
type TraitType struct {
	Name  string
	Ident Identity
}

func (t *TraitType) String() string     { return t.Name }
func (t *TraitType) Identity() Identity { return t.Ident }
func (*TraitType) typeNode()            {}
func (*TraitType) IsSolved() bool       { return true }

// TypePrefix returns the Mangler's stable type-prefix code for t (see
// spec.md §4.7): primitives get a one/two-char code, arrays are
// a<elem><n>, structs use their declared name, and ForAll variables have
// no valid prefix (monomorphization must have already erased them).
func TypePrefix(t Type) string {
	switch v := t.(type) {
	case *PrimitiveType:
		switch v.Kind {
		case Void:
			return "v"
		case Bool:
			return "b"
		case Int8:
			return "i8"
		case Int16:
			return "i16"
		case Int32:
			return "i32"
		case Int64, Int:
			return "i64"
		case Float64:
			return "f64"
		case String:
			return "s"
		case Char:
			return "c"
		case Array:
			return fmt.Sprintf("a%s%d", TypePrefix(v.Elem), v.Size)
		}
	case *StructType:
		return v.Name
	case *FuncType:
		return v.Name
	}
	return "?"
}
