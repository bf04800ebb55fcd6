package region

import (
	"sendcheck/internal/ir"
	"sendcheck/internal/isolation"
)

// Translation is the operation-log form of one function: per-block logs
// over a shared element space, ready for the dataflow solver. The logs
// are a pure function of the input; translating the same function twice
// yields identical logs.
type Translation struct {
	Values *ValueMap

	// Prologue seeds parameter regions. It runs exactly once, before the
	// entry block, never as part of the entry block's own log: a branch
	// back to the entry block must not reset parameter regions.
	Prologue []Op

	// Ops is indexed by ir.BlockID, parallel to the function's blocks.
	Ops [][]Op

	// Params holds the elements of tracked parameters in declaration
	// order.
	Params []Element

	// InOutParams holds the elements of by-reference sending parameters
	// that must be disconnected again on every exit path.
	InOutParams []Element
}

// Translate lowers one function into per-block operation logs.
//
// Values with concurrency-safe types are not tracked and produce no
// operations. Shapes the translator cannot classify become
// OpUnknownPattern entries rather than being dropped.
func Translate(m *ir.Module, f *ir.Func) *Translation {
	t := &translator{
		m:      m,
		f:      f,
		values: NewValueMap(f),
	}
	out := &Translation{
		Values: t.values,
		Ops:    make([][]Op, len(f.Blocks)),
	}
	out.Params, out.InOutParams = t.trackParams()

	t.ops = nil
	t.emitPrologue(out.Params)
	out.Prologue = t.ops

	for bi := range f.Blocks {
		b := &f.Blocks[bi]
		t.ops = nil
		for ii := range b.Instrs {
			t.translateInstr(InstRef{Block: b.ID, Index: int32(ii)}, &b.Instrs[ii])
		}
		t.translateTerm(InstRef{Block: b.ID, Index: int32(len(b.Instrs))}, &b.Term, out.InOutParams)
		out.Ops[bi] = t.ops
	}
	return out
}

type translator struct {
	m      *ir.Module
	f      *ir.Func
	values *ValueMap
	ops    []Op
}

func (t *translator) emit(op Op) {
	t.ops = append(t.ops, op)
}

// trackParams registers every non-sendable parameter. Indirect result
// and error slots are storage the caller owns; they are never tracked.
func (t *translator) trackParams() (params, inout []Element) {
	for _, p := range t.f.Params {
		if p.Conv.Has(ir.ConvIndirectResult) || p.Conv.Has(ir.ConvIndirectError) {
			continue
		}
		v := t.f.Value(p.Value)
		if v == nil || !isolation.IsNonSendableType(t.m, v.Type) {
			continue
		}
		e := t.values.Track(p.Value, isolation.DeriveArg(t.m, t.f, p))
		params = append(params, e)
		if p.Conv.Has(ir.ConvInoutSending) {
			inout = append(inout, e)
		}
	}
	return params, inout
}

// emitPrologue builds the prologue log: every tracked parameter starts
// in its own region, then parameters bound to a domain or task are merged
// into one region because the caller may have passed connected values.
// Parameters whose derived fact is disconnected arrived by ownership
// handoff and stay alone.
func (t *translator) emitPrologue(params []Element) {
	ref := InstRef{Block: t.f.Entry, Index: -1}
	for _, e := range params {
		t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
	}
	shared := NoElement
	for _, e := range params {
		if t.values.IsolationRegion(e).IsDisconnected() {
			continue
		}
		if shared == NoElement {
			shared = e
			continue
		}
		t.emit(Op{Kind: OpMerge, Elem: shared, From: e, Inst: ref})
	}
}

// element returns the element of an already-tracked value.
func (t *translator) element(v ir.ValueID) (Element, bool) {
	if v == ir.NoValue {
		return NoElement, false
	}
	return t.values.Element(v)
}

// trackDst registers the value an instruction defines. Reassignments of
// an already-tracked value (by-reference reinitialization) reuse the
// existing element.
func (t *translator) trackDst(v ir.ValueID, fact isolation.Info, ref InstRef) (Element, bool) {
	if v == ir.NoValue {
		return NoElement, false
	}
	rec := t.f.Value(v)
	if rec == nil || !isolation.IsNonSendableType(t.m, rec.Type) {
		return NoElement, false
	}
	fresh := true
	if _, ok := t.values.Element(v); ok {
		fresh = false
	}
	e := t.values.Track(v, fact)
	if fresh && fact.IsActorIsolated() {
		t.values.SetIntroducingInst(e, ref)
	}
	return e, true
}

func (t *translator) require(e Element, ref InstRef) {
	t.emit(Op{Kind: OpRequire, Elem: e, Inst: ref})
}

func (t *translator) translateInstr(ref InstRef, in *ir.Instr) {
	switch in.Kind {
	case ir.InstrAlloc:
		if e, ok := t.trackDst(in.Alloc.Dst, isolation.Disconnected(), ref); ok {
			t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
		}

	case ir.InstrMove:
		src, srcTracked := t.element(in.Move.Src)
		if srcTracked {
			t.require(src, ref)
		}
		e, ok := t.trackDst(in.Move.Dst, isolation.Disconnected(), ref)
		if !ok {
			return
		}
		if srcTracked {
			t.emit(Op{Kind: OpAssign, Elem: e, From: src, Inst: ref})
		} else {
			t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
		}

	case ir.InstrField:
		obj, objTracked := t.element(in.Field.Object)
		if objTracked {
			t.require(obj, ref)
		}
		fact := isolation.DeriveInst(t.m, t.f, in)
		e, ok := t.trackDst(in.Field.Dst, fact, ref)
		if !ok {
			return
		}
		if objTracked {
			// Projections stay connected to the value they came from.
			t.emit(Op{Kind: OpAssign, Elem: e, From: obj, Inst: ref})
		} else {
			t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
		}

	case ir.InstrGlobalAddr:
		fact := isolation.DeriveInst(t.m, t.f, in)
		if e, ok := t.trackDst(in.GlobalAddr.Dst, fact, ref); ok {
			t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
		}

	case ir.InstrFuncRef:
		fact := isolation.DeriveInst(t.m, t.f, in)
		if e, ok := t.trackDst(in.FuncRef.Dst, fact, ref); ok {
			t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
		}

	case ir.InstrClosure:
		t.translateClosure(ref, in)

	case ir.InstrCall:
		t.translateCall(ref, in)

	case ir.InstrNop:

	default:
		t.emit(Op{Kind: OpUnknownPattern, Inst: ref})
	}
}

// translateClosure lowers closure formation. Captures of a
// concurrency-safe closure are handed off at the formation point; the
// closure may run on any domain afterwards. Captures of an ordinary
// closure merge into the closure's region instead.
func (t *translator) translateClosure(ref InstRef, in *ir.Instr) {
	var captured []Element
	for _, c := range in.Closure.Captures {
		e, ok := t.element(c)
		if !ok {
			continue
		}
		t.require(e, ref)
		captured = append(captured, e)
	}

	dstRec := t.f.Value(in.Closure.Dst)
	sendableClosure := dstRec != nil && !isolation.IsNonSendableType(t.m, dstRec.Type)
	if sendableClosure {
		for i, e := range captured {
			t.emit(Op{
				Kind:             OpTransfer,
				Elem:             e,
				Inst:             ref,
				Operand:          in.Closure.Captures[i],
				IsClosureCapture: true,
			})
		}
		return
	}

	fact := isolation.DeriveInst(t.m, t.f, in)
	e, ok := t.trackDst(in.Closure.Dst, fact, ref)
	if !ok {
		return
	}
	t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
	for _, c := range captured {
		t.emit(Op{Kind: OpMerge, Elem: e, From: c, Inst: ref})
	}
}

// translateCall lowers a call. Every tracked argument is a use. Sending
// arguments always hand their region off; on a domain-crossing call all
// tracked arguments do, except the receiver carrying the callee's own
// domain instance.
func (t *translator) translateCall(ref InstRef, in *ir.Instr) {
	crossing := in.Call.Crossing != nil
	if crossing {
		callee := in.Call.Crossing.Callee
		if !callee.Nonisolated && !callee.Domain.IsValid() {
			// The oracle flagged a crossing but named no target domain.
			t.emit(Op{Kind: OpUnknownPattern, Inst: ref})
			return
		}
	}

	type trackedArg struct {
		elem Element
		arg  ir.CallArg
	}
	var tracked []trackedArg
	for _, a := range in.Call.Args {
		e, ok := t.element(a.Value)
		if !ok {
			continue
		}
		t.require(e, ref)
		tracked = append(tracked, trackedArg{elem: e, arg: a})
	}

	for _, ta := range tracked {
		if ta.arg.Isolated {
			continue
		}
		if ta.arg.Sending || crossing {
			t.emit(Op{Kind: OpTransfer, Elem: ta.elem, Inst: ref, Operand: ta.arg.Value})
		}
	}

	fact := isolation.DeriveInst(t.m, t.f, in)
	e, ok := t.trackDst(in.Call.Dst, fact, ref)
	if !ok {
		return
	}
	if crossing {
		t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
		return
	}
	assigned := false
	for _, ta := range tracked {
		if ta.arg.Sending {
			continue
		}
		if !assigned {
			t.emit(Op{Kind: OpAssign, Elem: e, From: ta.elem, Inst: ref})
			assigned = true
			continue
		}
		t.emit(Op{Kind: OpMerge, Elem: e, From: ta.elem, Inst: ref})
	}
	if !assigned {
		t.emit(Op{Kind: OpAssignFresh, Elem: e, Inst: ref})
	}
}

func (t *translator) translateTerm(ref InstRef, term *ir.Terminator, inout []Element) {
	if term.Kind == ir.TermReturn && term.Return.HasValue {
		if e, ok := t.element(term.Return.Value); ok {
			t.require(e, ref)
		}
	}
	if term.ExitsFunction() {
		for _, e := range inout {
			t.emit(Op{Kind: OpInOutAtExit, Elem: e, Inst: ref})
		}
	}
}
