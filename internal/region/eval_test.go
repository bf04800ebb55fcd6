package region

import (
	"testing"

	"sendcheck/internal/ir"
	"sendcheck/internal/isolation"
)

type useRecord struct {
	elem Element
	site TransferSite
}

type conflictRecord struct {
	elem     Element
	conflict Element
	info     isolation.Info
}

type recordingHandler struct {
	uses        []useRecord
	conflicts   []conflictRecord
	inoutBound  []Element
	inoutReinit []useRecord
	unknown     []Op
}

func (h *recordingHandler) UseAfterTransfer(op Op, elem Element, site TransferSite) {
	h.uses = append(h.uses, useRecord{elem: elem, site: site})
}

func (h *recordingHandler) TransferNonTransferrable(op Op, elem, conflict Element, info isolation.Info) {
	h.conflicts = append(h.conflicts, conflictRecord{elem: elem, conflict: conflict, info: info})
}

func (h *recordingHandler) InOutNotDisconnectedAtExit(op Op, elem Element, info isolation.Info) {
	h.inoutBound = append(h.inoutBound, elem)
}

func (h *recordingHandler) InOutNotReinitialized(op Op, elem Element, site TransferSite) {
	h.inoutReinit = append(h.inoutReinit, useRecord{elem: elem, site: site})
}

func (h *recordingHandler) UnknownPattern(op Op) {
	h.unknown = append(h.unknown, op)
}

func evalFunc() *ir.Func {
	return &ir.Func{
		Name: "eval_test",
		Values: []ir.Value{
			{},
			{ID: 1, Name: "a"},
			{ID: 2, Name: "b"},
			{ID: 3, Name: "c"},
		},
	}
}

func newEvaluator(vm *ValueMap, h Handler) *Evaluator {
	return &Evaluator{Part: NewPartition(), Values: vm, Handler: h}
}

func TestEvalUseAfterTransfer(t *testing.T) {
	vm := NewValueMap(evalFunc())
	a := vm.Track(1, isolation.Disconnected())
	b := vm.Track(2, isolation.Disconnected())

	h := &recordingHandler{}
	ev := newEvaluator(vm, h)

	ev.Apply(Op{Kind: OpAssignFresh, Elem: a})
	ev.Apply(Op{Kind: OpAssignFresh, Elem: b})
	ev.Apply(Op{Kind: OpMerge, Elem: a, From: b})

	send := Op{Kind: OpTransfer, Elem: a, Inst: InstRef{Block: 0, Index: 2}, Operand: 1}
	ev.Apply(send)

	// A use of any element of the sent region conflicts.
	ev.Apply(Op{Kind: OpRequire, Elem: b, Inst: InstRef{Block: 0, Index: 3}})

	if len(h.uses) != 1 {
		t.Fatalf("got %d uses, want 1", len(h.uses))
	}
	if h.uses[0].elem != b || h.uses[0].site.Operand != 1 {
		t.Errorf("use = %+v, want elem b conflicting with send of value 1", h.uses[0])
	}
	if len(h.conflicts) != 0 || len(h.unknown) != 0 {
		t.Error("disconnected transfer must not raise other violations")
	}
}

func TestEvalRequireBeforeTransferIsClean(t *testing.T) {
	vm := NewValueMap(evalFunc())
	a := vm.Track(1, isolation.Disconnected())

	h := &recordingHandler{}
	ev := newEvaluator(vm, h)

	ev.Apply(Op{Kind: OpAssignFresh, Elem: a})
	ev.Apply(Op{Kind: OpRequire, Elem: a})
	ev.Apply(Op{Kind: OpTransfer, Elem: a, Operand: 1})

	if len(h.uses) != 0 {
		t.Errorf("got %d uses, want 0", len(h.uses))
	}
}

func TestEvalTransferNonTransferrable(t *testing.T) {
	vm := NewValueMap(evalFunc())
	a := vm.Track(1, isolation.Disconnected())
	b := vm.Track(2, isolation.GlobalDomainIsolated(1))

	h := &recordingHandler{}
	ev := newEvaluator(vm, h)

	ev.Apply(Op{Kind: OpAssignFresh, Elem: a})
	ev.Apply(Op{Kind: OpAssignFresh, Elem: b})
	ev.Apply(Op{Kind: OpMerge, Elem: a, From: b})
	ev.Apply(Op{Kind: OpTransfer, Elem: a, Operand: 1})

	if len(h.conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(h.conflicts))
	}
	c := h.conflicts[0]
	if c.conflict != b {
		t.Errorf("conflict element = %d, want %d (the domain-bound one)", c.conflict, b)
	}
	if !c.info.IsActorIsolated() || c.info.Domain() != 1 {
		t.Errorf("merged isolation = %v, want domain-isolated(#1)", c.info)
	}

	// The failed send leaves no outstanding transfer behind.
	ev.Apply(Op{Kind: OpRequire, Elem: a})
	if len(h.uses) != 0 {
		t.Error("a rejected transfer must not poison later uses")
	}
}

func TestEvalDomainConflictEscalates(t *testing.T) {
	vm := NewValueMap(evalFunc())
	a := vm.Track(1, isolation.GlobalDomainIsolated(1))
	b := vm.Track(2, isolation.GlobalDomainIsolated(2))

	h := &recordingHandler{}
	ev := newEvaluator(vm, h)

	ev.Apply(Op{Kind: OpAssignFresh, Elem: a})
	ev.Apply(Op{Kind: OpAssignFresh, Elem: b})
	ev.Apply(Op{Kind: OpMerge, Elem: a, From: b})
	ev.Apply(Op{Kind: OpTransfer, Elem: a, Operand: 1})

	if len(h.unknown) != 1 {
		t.Fatalf("two domains in one region must escalate, got %d unknown ops", len(h.unknown))
	}
	if len(h.conflicts) != 0 {
		t.Error("an escalated transfer must not also report a conflict")
	}
}

func TestEvalInOutAtExit(t *testing.T) {
	t.Run("transferred and never reassigned", func(t *testing.T) {
		vm := NewValueMap(evalFunc())
		p := vm.Track(1, isolation.Disconnected())

		h := &recordingHandler{}
		ev := newEvaluator(vm, h)
		ev.Apply(Op{Kind: OpAssignFresh, Elem: p})
		ev.Apply(Op{Kind: OpTransfer, Elem: p, Operand: 1})
		ev.Apply(Op{Kind: OpInOutAtExit, Elem: p})

		if len(h.inoutReinit) != 1 {
			t.Fatalf("got %d reinit violations, want 1", len(h.inoutReinit))
		}
		if len(h.inoutBound) != 0 {
			t.Error("a transferred parameter reports reinit, not binding")
		}
	})

	t.Run("reassigned after transfer", func(t *testing.T) {
		vm := NewValueMap(evalFunc())
		p := vm.Track(1, isolation.Disconnected())
		fresh := vm.Track(2, isolation.Disconnected())

		h := &recordingHandler{}
		ev := newEvaluator(vm, h)
		ev.Apply(Op{Kind: OpAssignFresh, Elem: p})
		ev.Apply(Op{Kind: OpTransfer, Elem: p, Operand: 1})
		ev.Apply(Op{Kind: OpAssignFresh, Elem: fresh})
		ev.Apply(Op{Kind: OpAssign, Elem: p, From: fresh})
		ev.Apply(Op{Kind: OpInOutAtExit, Elem: p})

		if len(h.inoutReinit) != 0 || len(h.inoutBound) != 0 {
			t.Error("reassignment restores the exit contract")
		}
	})

	t.Run("still bound to a domain", func(t *testing.T) {
		vm := NewValueMap(evalFunc())
		p := vm.Track(1, isolation.Disconnected())
		bound := vm.Track(2, isolation.GlobalDomainIsolated(1))

		h := &recordingHandler{}
		ev := newEvaluator(vm, h)
		ev.Apply(Op{Kind: OpAssignFresh, Elem: p})
		ev.Apply(Op{Kind: OpAssignFresh, Elem: bound})
		ev.Apply(Op{Kind: OpMerge, Elem: p, From: bound})
		ev.Apply(Op{Kind: OpInOutAtExit, Elem: p})

		if len(h.inoutBound) != 1 {
			t.Fatalf("got %d binding violations, want 1", len(h.inoutBound))
		}
	})
}

func TestEvalUnknownOpKind(t *testing.T) {
	vm := NewValueMap(evalFunc())
	h := &recordingHandler{}
	ev := newEvaluator(vm, h)

	ev.Apply(Op{Kind: OpUnknownPattern})
	ev.Apply(Op{Kind: OpKind(200)})

	if len(h.unknown) != 2 {
		t.Errorf("got %d unknown ops, want 2", len(h.unknown))
	}
}
