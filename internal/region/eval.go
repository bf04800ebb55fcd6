package region

import (
	"sendcheck/internal/isolation"
)

// Handler receives the abstract machine's invariant violations during
// replay. Handlers record; they never stop the replay of a block.
type Handler interface {
	// UseAfterTransfer fires when a require observes an element whose
	// region carries an outstanding transfer.
	UseAfterTransfer(op Op, elem Element, site TransferSite)

	// TransferNonTransferrable fires when a transfer would move a
	// region whose merged isolation is bound to a domain. conflict is
	// the element that introduced the binding.
	TransferNonTransferrable(op Op, elem Element, conflict Element, info isolation.Info)

	// InOutNotDisconnectedAtExit fires at a function-exiting terminator
	// when a by-reference sending parameter's region is still
	// domain-bound.
	InOutNotDisconnectedAtExit(op Op, elem Element, info isolation.Info)

	// InOutNotReinitialized fires at a function-exiting terminator when
	// a by-reference sending parameter was transferred and never
	// reassigned.
	InOutNotReinitialized(op Op, elem Element, site TransferSite)

	// UnknownPattern fires for operation shapes the machine cannot
	// classify. Never dropped silently.
	UnknownPattern(op Op)
}

// NopHandler ignores all callbacks. The solver replays blocks with it
// while converging entry partitions.
type NopHandler struct{}

func (NopHandler) UseAfterTransfer(Op, Element, TransferSite)                    {}
func (NopHandler) TransferNonTransferrable(Op, Element, Element, isolation.Info) {}
func (NopHandler) InOutNotDisconnectedAtExit(Op, Element, isolation.Info)        {}
func (NopHandler) InOutNotReinitialized(Op, Element, TransferSite)               {}
func (NopHandler) UnknownPattern(Op)                                             {}

// Evaluator applies operation logs to a working partition, firing the
// handler on rule violations.
type Evaluator struct {
	Part    *Partition
	Values  *ValueMap
	Handler Handler
}

// Apply executes one operation. The working partition is mutated in
// place; violations are reported through the handler and never abort
// the remaining operations of the block.
func (ev *Evaluator) Apply(op Op) {
	switch op.Kind {
	case OpAssignFresh:
		ev.Part.AssignFresh(op.Elem)

	case OpAssign:
		ev.Part.Assign(op.Elem, op.From)

	case OpMerge:
		ev.Part.Merge(op.Elem, op.From)

	case OpRequire:
		for _, site := range ev.Part.TransferSites(op.Elem) {
			ev.Handler.UseAfterTransfer(op, op.Elem, site)
		}

	case OpTransfer:
		info, conflict, ok := ev.mergedIsolation(op.Elem)
		if !ok {
			ev.Handler.UnknownPattern(op)
			return
		}
		if !info.IsDisconnected() {
			// Domain-bound regions must not be handed off; the region
			// keeps its current state.
			ev.Handler.TransferNonTransferrable(op, op.Elem, conflict, info)
			return
		}
		ev.Part.Transfer(op.Elem, TransferSite{
			Inst:             op.Inst,
			Operand:          op.Operand,
			Elem:             op.Elem,
			IsClosureCapture: op.IsClosureCapture,
		})

	case OpUndoTransfer:
		ev.Part.UndoTransfer(op.Elem)

	case OpInOutAtExit:
		if sites := ev.Part.TransferSites(op.Elem); len(sites) > 0 {
			for _, site := range sites {
				ev.Handler.InOutNotReinitialized(op, op.Elem, site)
			}
			return
		}
		info, _, ok := ev.mergedIsolation(op.Elem)
		if !ok {
			ev.Handler.UnknownPattern(op)
			return
		}
		if !info.IsDisconnected() {
			ev.Handler.InOutNotDisconnectedAtExit(op, op.Elem, info)
		}

	case OpUnknownPattern:
		ev.Handler.UnknownPattern(op)

	default:
		ev.Handler.UnknownPattern(op)
	}
}

// mergedIsolation folds the isolation facts of every element in e's
// region. ok is false when two facts name different domains; that is an
// internal-consistency failure, not a user-facing finding.
func (ev *Evaluator) mergedIsolation(e Element) (isolation.Info, Element, bool) {
	merged := isolation.Disconnected()
	conflict := NoElement
	for _, member := range ev.Part.RegionMembers(e) {
		fact := ev.Values.IsolationRegion(member)
		next, ok := merged.Merge(fact)
		if !ok {
			return merged, NoElement, false
		}
		if conflict == NoElement && (fact.IsActorIsolated() || fact.IsTaskIsolated()) {
			conflict = member
		}
		merged = next
	}
	return merged, conflict, true
}
