package region

import (
	"fmt"

	"sendcheck/internal/ir"
	"sendcheck/internal/source"
)

// Element identifies one tracked value. Elements are 1-based; the zero
// value marks the absence of an element.
type Element uint32

// NoElement marks the absence of an element.
const NoElement Element = 0

// Region identifies a must-alias group of elements at a program point.
type Region uint32

// InstRef references an instruction inside a function: Index is the
// instruction's position within its block, or len(block.Instrs) for the
// block's terminator.
type InstRef struct {
	Block ir.BlockID
	Index int32
}

// IsTerminator reports whether the reference names the block terminator.
func (r InstRef) IsTerminator(f *ir.Func) bool {
	b := f.Block(r.Block)
	return b != nil && int(r.Index) == len(b.Instrs)
}

// Instr resolves the referenced instruction, nil for terminators and
// invalid references.
func (r InstRef) Instr(f *ir.Func) *ir.Instr {
	b := f.Block(r.Block)
	if b == nil || r.Index < 0 || int(r.Index) >= len(b.Instrs) {
		return nil
	}
	return &b.Instrs[r.Index]
}

// Span resolves the source span of the referenced instruction or
// terminator.
func (r InstRef) Span(f *ir.Func) source.Span {
	if b := f.Block(r.Block); b != nil {
		if int(r.Index) == len(b.Instrs) {
			return b.Term.Span
		}
		if in := r.Instr(f); in != nil {
			return in.Span
		}
	}
	return f.Span
}

func (r InstRef) String() string {
	return fmt.Sprintf("bb%d[%d]", r.Block, r.Index)
}

// TransferSite records one outstanding handoff: the operation that
// transferred a region and the operand it moved.
type TransferSite struct {
	Inst    InstRef
	Operand ir.ValueID
	Elem    Element

	// IsClosureCapture is set when the operand was handed off by being
	// captured into a concurrency-safe closure rather than passed to a
	// call directly.
	IsClosureCapture bool
}
