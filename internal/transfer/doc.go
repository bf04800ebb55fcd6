// Package transfer detects cross-domain ownership violations in lowered
// functions.
//
// The pass translates a function into per-block operation logs
// (internal/region), converges entry partitions with the dataflow
// solver, then replays every live block once more with a collecting
// handler. Raw use-after-send candidates are reduced to the first
// conflicting use per control flow path before anything is reported.
package transfer
