package region

import (
	"fmt"

	"fortio.org/safecast"

	"sendcheck/internal/ir"
	"sendcheck/internal/isolation"
)

// ValueMap assigns elements to tracked values and stores per-element
// facts the evaluator consults: the representative value, the derived
// isolation fact, and (for facts introduced by an instruction rather
// than carried by a value) the introducing instruction.
type ValueMap struct {
	fn    *ir.Func
	elems map[ir.ValueID]Element

	// Indexed by Element; index 0 is a sentinel entry.
	values []ir.ValueID
	facts  []isolation.Info
	intro  []InstRef
	hasIn  []bool
}

// NewValueMap creates an empty map for one function.
func NewValueMap(fn *ir.Func) *ValueMap {
	return &ValueMap{
		fn:     fn,
		elems:  make(map[ir.ValueID]Element),
		values: []ir.ValueID{ir.NoValue},
		facts:  []isolation.Info{isolation.Unknown()},
		intro:  []InstRef{{}},
		hasIn:  []bool{false},
	}
}

// Track registers a value and its derived isolation fact, returning the
// element. Tracking an already-tracked value returns the existing
// element unchanged.
func (vm *ValueMap) Track(v ir.ValueID, fact isolation.Info) Element {
	if e, ok := vm.elems[v]; ok && v != ir.NoValue {
		return e
	}
	e := vm.newElement(v, fact)
	if v != ir.NoValue {
		vm.elems[v] = e
	}
	return e
}

func (vm *ValueMap) newElement(v ir.ValueID, fact isolation.Info) Element {
	n, err := safecast.Conv[uint32](len(vm.values))
	if err != nil {
		panic(fmt.Errorf("value map overflow: %w", err))
	}
	e := Element(n)
	vm.values = append(vm.values, v)
	vm.facts = append(vm.facts, fact)
	vm.intro = append(vm.intro, InstRef{})
	vm.hasIn = append(vm.hasIn, false)
	return e
}

// SetIntroducingInst records the instruction that introduced the
// element's domain binding.
func (vm *ValueMap) SetIntroducingInst(e Element, ref InstRef) {
	if int(e) < len(vm.intro) {
		vm.intro[e] = ref
		vm.hasIn[e] = true
	}
}

// Element returns the element of a tracked value.
func (vm *ValueMap) Element(v ir.ValueID) (Element, bool) {
	e, ok := vm.elems[v]
	return e, ok
}

// Len returns the number of elements (excluding the sentinel).
func (vm *ValueMap) Len() int {
	return len(vm.values) - 1
}

// Representative returns the canonical value for the element, NoValue
// when the element has none.
func (vm *ValueMap) Representative(e Element) ir.ValueID {
	if int(e) >= len(vm.values) {
		return ir.NoValue
	}
	return vm.values[e]
}

// MaybeRepresentative returns the canonical value and whether one exists.
func (vm *ValueMap) MaybeRepresentative(e Element) (ir.ValueID, bool) {
	v := vm.Representative(e)
	return v, v != ir.NoValue
}

// IsolationRegion returns the isolation fact derived for the element.
func (vm *ValueMap) IsolationRegion(e Element) isolation.Info {
	if int(e) >= len(vm.facts) {
		return isolation.Unknown()
	}
	return vm.facts[e]
}

// MaybeDomainIntroducingInst returns the instruction that introduced the
// element's domain binding, if one was recorded.
func (vm *ValueMap) MaybeDomainIntroducingInst(e Element) (InstRef, bool) {
	if int(e) >= len(vm.intro) || !vm.hasIn[e] {
		return InstRef{}, false
	}
	return vm.intro[e], true
}

// Func returns the function the map belongs to.
func (vm *ValueMap) Func() *ir.Func {
	return vm.fn
}
