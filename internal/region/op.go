package region

import (
	"sendcheck/internal/ir"
)

// OpKind enumerates partition-mutating operations.
type OpKind uint8

const (
	// OpAssignFresh places an element into a new singleton region.
	OpAssignFresh OpKind = iota
	// OpAssign rebinds Elem into From's region.
	OpAssign
	// OpMerge unions the regions of Elem and From.
	OpMerge
	// OpTransfer hands Elem's region to another isolation domain.
	OpTransfer
	// OpUndoTransfer clears outstanding transfers of Elem's region.
	OpUndoTransfer
	// OpRequire observes Elem; conflicts with outstanding transfers.
	OpRequire
	// OpInOutAtExit checks a by-reference sending parameter at a
	// function-exiting terminator.
	OpInOutAtExit
	// OpUnknownPattern marks an operation shape the translator could
	// not classify. Never dropped silently.
	OpUnknownPattern
)

// Op is one entry of a block's operation log.
type Op struct {
	Kind OpKind
	Elem Element
	From Element
	Inst InstRef

	// Operand is the value moved by OpTransfer.
	Operand ir.ValueID
	// IsClosureCapture is set on OpTransfer for closure captures.
	IsClosureCapture bool
}

func (k OpKind) String() string {
	switch k {
	case OpAssignFresh:
		return "assign_fresh"
	case OpAssign:
		return "assign"
	case OpMerge:
		return "merge"
	case OpTransfer:
		return "transfer"
	case OpUndoTransfer:
		return "undo_transfer"
	case OpRequire:
		return "require"
	case OpInOutAtExit:
		return "inout_at_exit"
	case OpUnknownPattern:
		return "unknown_pattern"
	}
	return "invalid"
}
