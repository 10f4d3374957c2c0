package hir

// TraitSolver tracks which traits a type implements and which methods
// belong to which trait, mirroring the original implementation's
// `TraitSolver` (trait_solver.rs): two maps, no inheritance, no
// coherence checking beyond what internal/resolve already enforces
// (AmbiguousImpl rejects multi-type impls before this structure is
// populated).
type TraitSolver struct {
	// ImplementedTrait maps an implementor type name to the set of
	// trait names it implements.
	ImplementedTrait map[string]map[string]bool

	// TraitMethods maps a trait name to the set of method names it
	// declares (its Defs plus any populated default_impl entries).
	TraitMethods map[string]map[string]bool

	// Impls indexes the concrete *FunctionDecl registered for
	// (implementor type name, method name), keyed by implementor type
	// and trait name ("" for an inherent impl), so dispatch can prefer
	// inherent impls per spec.md §4.6's tie-break rule.
	Impls map[implKey]map[string]*FunctionDecl

	// TraitDeclOrder lists every trait name in first-AddTrait-call
	// order, so a caller that doesn't already know a specific
	// tie-break order (internal/infer's inferStructAccess dispatching a
	// method call)
	// can still resolve deterministically ("textually first" per
	// spec.md §4.6) instead of ranging a map.
	TraitDeclOrder []string
}

type implKey struct {
	TypeName  string
	TraitName string // "" for an inherent impl
}

// NewTraitSolver returns an empty TraitSolver.
func NewTraitSolver() *TraitSolver {
	return &TraitSolver{
		ImplementedTrait: map[string]map[string]bool{},
		TraitMethods:     map[string]map[string]bool{},
		Impls:            map[implKey]map[string]*FunctionDecl{},
	}
}

// AddTrait registers a trait's declared method names.
func (s *TraitSolver) AddTrait(traitName string, methodNames []string) {
	set := s.TraitMethods[traitName]
	if set == nil {
		set = map[string]bool{}
		s.TraitMethods[traitName] = set
		s.TraitDeclOrder = append(s.TraitDeclOrder, traitName)
	}
	for _, m := range methodNames {
		set[m] = true
	}
}

// TraitsDeclaring returns, in declaration order, every trait name whose
// method set includes methodName.
func (s *TraitSolver) TraitsDeclaring(methodName string) []string {
	var names []string
	for _, traitName := range s.TraitDeclOrder {
		if s.TraitMethods[traitName][methodName] {
			names = append(names, traitName)
		}
	}
	return names
}

// AddImplementor records that implementorType implements traitName.
// traitName is "" for an inherent impl, which records nothing here:
// inherent methods are found through Impls alone.
func (s *TraitSolver) AddImplementor(implementorType, traitName string) {
	if traitName == "" {
		return
	}
	set := s.ImplementedTrait[implementorType]
	if set == nil {
		set = map[string]bool{}
		s.ImplementedTrait[implementorType] = set
	}
	set[traitName] = true
}

// RegisterMethod records the concrete function implementing method
// methodName for implementorType under the given impl (traitName ""
// for inherent).
func (s *TraitSolver) RegisterMethod(implementorType, traitName, methodName string, fn *FunctionDecl) {
	key := implKey{TypeName: implementorType, TraitName: traitName}
	set := s.Impls[key]
	if set == nil {
		set = map[string]*FunctionDecl{}
		s.Impls[key] = set
	}
	set[methodName] = fn
}

// DoesImplFn reports whether some trait implemented by implementorType
// declares fnName.
func (s *TraitSolver) DoesImplFn(implementorType, fnName string) bool {
	for traitName, methods := range s.TraitMethods {
		if !methods[fnName] {
			continue
		}
		if s.ImplementedTrait[implementorType][traitName] {
			return true
		}
	}
	return false
}

// Resolve picks the concrete FunctionDecl for implementorType.fnName,
// preferring the inherent impl, then trying the traits implementorType
// implements in the order traitOrder lists them. internal/infer passes
// TraitDeclOrder, so ties between traits break on trait declaration
// order; the order the impls were registered in plays no part.
func (s *TraitSolver) Resolve(implementorType, fnName string, traitOrder []string) (*FunctionDecl, bool) {
	if inherent, ok := s.Impls[implKey{TypeName: implementorType}][fnName]; ok {
		return inherent, true
	}
	for _, traitName := range traitOrder {
		if !s.ImplementedTrait[implementorType][traitName] {
			continue
		}
		if fn, ok := s.Impls[implKey{TypeName: implementorType, TraitName: traitName}][fnName]; ok {
			return fn, true
		}
	}
	return nil, false
}
