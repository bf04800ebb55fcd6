package ir

import (
	"errors"
	"fmt"
)

// Validate checks module invariants.
// Returns error if any invariant is violated.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for i := range m.Funcs {
		if err := validateFunc(m, &m.Funcs[i]); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", m.Funcs[i].Name, err))
		}
	}
	for i, g := range m.Globals {
		if int(g.Type) >= len(m.Types) {
			errs = append(errs, fmt.Errorf("global %s: bad type id %d", g.Name, g.Type))
		}
		if g.Domain != NoDomain && m.Domain(g.Domain) == nil {
			errs = append(errs, fmt.Errorf("global #%d %s: bad domain id %d", i, g.Name, g.Domain))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(m *Module, f *Func) error {
	var errs []error

	if err := validateBlocksTerminated(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateBlockTargets(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateValueRefs(m, f); err != nil {
		errs = append(errs, err)
	}
	if err := validateParams(f); err != nil {
		errs = append(errs, err)
	}
	if f.Isolation.Domain != NoDomain && m.Domain(f.Isolation.Domain) == nil {
		errs = append(errs, fmt.Errorf("bad declared domain id %d", f.Isolation.Domain))
	}
	if len(f.Blocks) > 0 && int(f.Entry) >= len(f.Blocks) {
		errs = append(errs, fmt.Errorf("entry bb%d out of range", f.Entry))
	}

	return errors.Join(errs...)
}

// validateBlocksTerminated checks that every block ends with a terminator.
func validateBlocksTerminated(f *Func) error {
	var errs []error
	for i := range f.Blocks {
		if f.Blocks[i].Term.Kind == TermNone {
			errs = append(errs, fmt.Errorf("bb%d: unterminated block", i))
		}
	}
	return errors.Join(errs...)
}

// validateBlockTargets checks that all block target IDs exist.
func validateBlockTargets(f *Func) error {
	var errs []error

	blockExists := func(id BlockID) bool {
		return int(id) < len(f.Blocks)
	}

	for i := range f.Blocks {
		for _, succ := range f.Blocks[i].Term.Successors() {
			if !blockExists(succ) {
				errs = append(errs, fmt.Errorf("bb%d: branch to missing bb%d", i, succ))
			}
		}
	}
	return errors.Join(errs...)
}

// validateValueRefs checks that every value reference resolves and that
// each referenced type exists.
func validateValueRefs(m *Module, f *Func) error {
	var errs []error

	checkValue := func(bb int, id ValueID) {
		if id == NoValue {
			return
		}
		v := f.Value(id)
		if v == nil {
			errs = append(errs, fmt.Errorf("bb%d: bad value id %d", bb, id))
			return
		}
		if int(v.Type) >= len(m.Types) {
			errs = append(errs, fmt.Errorf("bb%d: value %d has bad type id %d", bb, id, v.Type))
		}
	}

	for bi := range f.Blocks {
		b := &f.Blocks[bi]
		for ii := range b.Instrs {
			in := &b.Instrs[ii]
			checkValue(bi, in.Dst())
			switch in.Kind {
			case InstrMove:
				checkValue(bi, in.Move.Src)
			case InstrField:
				checkValue(bi, in.Field.Object)
			case InstrGlobalAddr:
				if in.GlobalAddr.Global != 0 && m.GlobalDecl(in.GlobalAddr.Global) == nil {
					errs = append(errs, fmt.Errorf("bb%d: bad global id %d", bi, in.GlobalAddr.Global))
				}
			case InstrFuncRef:
				if m.Func(in.FuncRef.Fn) == nil {
					errs = append(errs, fmt.Errorf("bb%d: bad func id %d", bi, in.FuncRef.Fn))
				}
			case InstrClosure:
				for _, c := range in.Closure.Captures {
					checkValue(bi, c)
				}
			case InstrCall:
				for _, a := range in.Call.Args {
					checkValue(bi, a.Value)
				}
			}
		}
		if b.Term.Kind == TermReturn && b.Term.Return.HasValue {
			checkValue(bi, b.Term.Return.Value)
		}
		if b.Term.Kind == TermIf {
			checkValue(bi, b.Term.If.Cond)
		}
	}
	return errors.Join(errs...)
}

// validateParams checks parameter conventions for internal consistency.
func validateParams(f *Func) error {
	var errs []error
	isolatedSeen := false
	for i, p := range f.Params {
		if f.Value(p.Value) == nil {
			errs = append(errs, fmt.Errorf("param #%d: bad value id %d", i, p.Value))
			continue
		}
		if p.Conv.Has(ConvIsolated) {
			if isolatedSeen {
				errs = append(errs, fmt.Errorf("param #%d: second isolated parameter", i))
			}
			isolatedSeen = true
		}
		if p.Conv.Has(ConvSending) && p.Conv.Has(ConvIsolated) {
			errs = append(errs, fmt.Errorf("param #%d: sending parameter cannot be isolated", i))
		}
		if p.Conv.Has(ConvInoutSending) && !p.Conv.Has(ConvSending) {
			errs = append(errs, fmt.Errorf("param #%d: inout-sending implies sending", i))
		}
	}
	return errors.Join(errs...)
}
