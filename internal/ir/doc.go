// Package ir defines the mid-level IR the checker consumes.
//
// Frontends lower each function into a small SSA-like form: every
// instruction result and parameter is a Value, blocks end in explicit
// terminators, and isolation metadata (domains, parameter conventions,
// isolation-crossing call sites) is resolved by the frontend and stored
// directly on the instructions. The checker never re-derives frontend
// facts; it only reasons about how values flow between regions.
package ir
