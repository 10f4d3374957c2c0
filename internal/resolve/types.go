package resolve

import "github.com/Champii/Rock-sub001/internal/ast"

// linkTypes replaces every named-type placeholder the parser emits
// (parser.resolveNamedType returns a zero-field *ast.StructType for any
// name it doesn't recognize as a primitive) with the real declared
// StructType or TraitType, now that every module's declarations are
// known. Unsolved placeholders (a name matching neither) are left
// alone as zero-field StructTypes; no stage reports them.
func (r *Resolver) linkTypes(root *ast.Root) {
	structs := map[string]*ast.StructType{}
	traits := map[string]bool{}
	r.collectNamedTypes(root.Mod, structs, traits)
	r.substituteTypes(root.Mod, structs, traits)
}

func (r *Resolver) collectNamedTypes(m *ast.Mod, structs map[string]*ast.StructType, traits map[string]bool) {
	for _, top := range m.TopLevels {
		switch top.Kind {
		case ast.TopStruct:
			st := ast.NewStructType(top.Struct.Name.Name)
			for _, f := range top.Struct.Defs {
				st.AddField(f.Name.Name, f.Type)
			}
			structs[top.Struct.Name.Name] = st
		case ast.TopTrait:
			traits[top.Trait.Name.Name] = true
		case ast.TopMod:
			if top.SubMod != nil {
				r.collectNamedTypes(top.SubMod, structs, traits)
			}
		}
	}
}

func (r *Resolver) substituteTypes(m *ast.Mod, structs map[string]*ast.StructType, traits map[string]bool) {
	resolve := func(t ast.Type) ast.Type { return resolveNamedPlaceholder(t, structs, traits) }

	for _, top := range m.TopLevels {
		switch top.Kind {
		case ast.TopStruct:
			for _, f := range top.Struct.Defs {
				f.Type = resolve(f.Type)
			}
			if st, ok := structs[top.Struct.Name.Name]; ok {
				for _, name := range st.Order {
					st.Defs[name] = resolve(st.Defs[name])
				}
			}
		case ast.TopFunction:
			linkSignature(top.Function.Signature, resolve)
		case ast.TopPrototype:
			linkSignature(top.Prototype.Signature, resolve)
		case ast.TopTrait:
			for _, def := range top.Trait.Defs {
				linkSignature(def.Signature, resolve)
			}
			for _, def := range top.Trait.DefaultImpl {
				linkSignature(def.Signature, resolve)
			}
		case ast.TopImpl:
			for _, def := range top.Impl.Defs {
				linkSignature(def.Signature, resolve)
			}
		case ast.TopMod:
			if top.SubMod != nil {
				r.substituteTypes(top.SubMod, structs, traits)
			}
		}
	}
}

func linkSignature(sig *ast.TypeSignature, resolve func(ast.Type) ast.Type) {
	if sig == nil {
		return
	}
	for i, a := range sig.Arguments {
		sig.Arguments[i] = resolve(a)
	}
	sig.Ret = resolve(sig.Ret)
}

func resolveNamedPlaceholder(t ast.Type, structs map[string]*ast.StructType, traits map[string]bool) ast.Type {
	switch v := t.(type) {
	case nil:
		return nil
	case *ast.PrimitiveType:
		if v.Kind == ast.Array {
			v.Elem = resolveNamedPlaceholder(v.Elem, structs, traits)
		}
		return v
	case *ast.StructType:
		if len(v.Order) > 0 {
			return v // already a real, field-bearing declaration
		}
		if real, ok := structs[v.Name]; ok {
			return real
		}
		if traits[v.Name] {
			return &ast.TraitType{Name: v.Name, Ident: v.Ident}
		}
		return v
	default:
		return t
	}
}
