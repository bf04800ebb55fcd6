package isolation

import (
	"sendcheck/internal/ir"
)

// deriveCtx carries the tables a rule may consult.
type deriveCtx struct {
	m *ir.Module
	f *ir.Func
}

// instRule is one derivation rule over instruction shapes. Rules are
// evaluated in table order; the first rule that applies wins.
type instRule struct {
	name  string
	apply func(ctx *deriveCtx, in *ir.Instr) (Info, bool)
}

var instRules = []instRule{
	{"crossing-call", deriveCrossingCall},
	{"isolated-receiver", deriveIsolatedReceiver},
	{"closure-context", deriveClosureContext},
	{"domain-projection", deriveDomainProjection},
	{"domain-global", deriveDomainGlobal},
	{"func-ref", deriveFuncRef},
	{"nonisolated-call", deriveNonisolatedCall},
}

// DeriveInst assigns an isolation fact to the value produced by in.
// Pure function of the instruction shape and module tables; identical
// input yields identical output.
func DeriveInst(m *ir.Module, f *ir.Func, in *ir.Instr) Info {
	info, _ := DeriveInstDetailed(m, f, in)
	return info
}

// DeriveInstDetailed additionally reports which rule matched. An empty
// rule name means no rule applied and the fact is Unknown.
func DeriveInstDetailed(m *ir.Module, f *ir.Func, in *ir.Instr) (Info, string) {
	ctx := &deriveCtx{m: m, f: f}
	for _, r := range instRules {
		if info, ok := r.apply(ctx, in); ok {
			return info, r.name
		}
	}
	return Unknown(), ""
}

// deriveCrossingCall handles calls the isolation-crossing oracle marked
// as entering a domain: the result lives in the callee's domain. The
// oracle reports domains only, never instances.
func deriveCrossingCall(ctx *deriveCtx, in *ir.Instr) (Info, bool) {
	if in.Kind != ir.InstrCall || in.Call.Crossing == nil {
		return Info{}, false
	}
	callee := in.Call.Crossing.Callee
	if !callee.Domain.IsValid() {
		return Info{}, false
	}
	return GlobalDomainIsolated(callee.Domain), true
}

// deriveIsolatedReceiver handles calls whose receiver is passed with the
// isolated convention and has a domain type: the result is bound to that
// concrete instance.
func deriveIsolatedReceiver(ctx *deriveCtx, in *ir.Instr) (Info, bool) {
	if in.Kind != ir.InstrCall {
		return Info{}, false
	}
	for _, a := range in.Call.Args {
		if !a.Isolated {
			continue
		}
		v := ctx.f.Value(a.Value)
		if v == nil {
			continue
		}
		t := ctx.m.Type(v.Type)
		if t == nil || t.Kind != ir.TypeActor || !t.Domain.IsValid() {
			continue
		}
		return ActorInstanceIsolated(a.Value, t.Domain), true
	}
	return Info{}, false
}

// deriveClosureContext propagates the domain of a closure's creation
// context. When the concrete instance is not captured the fact is
// flow-sensitive: call sites may supply different instances of the same
// domain and the analysis conflates them.
func deriveClosureContext(ctx *deriveCtx, in *ir.Instr) (Info, bool) {
	if in.Kind != ir.InstrClosure || !in.Closure.Context.Domain.IsValid() {
		return Info{}, false
	}
	domain := in.Closure.Context.Domain
	d := ctx.m.Domain(domain)
	if d != nil && d.Kind == ir.DomainGlobal {
		return GlobalDomainIsolated(domain), true
	}
	for _, c := range in.Closure.Captures {
		v := ctx.f.Value(c)
		if v == nil {
			continue
		}
		if t := ctx.m.Type(v.Type); t != nil && t.Kind == ir.TypeActor && t.Domain == domain {
			return ActorInstanceIsolated(c, domain), true
		}
	}
	return FlowSensitiveActorIsolated(domain), true
}

// deriveDomainProjection handles field/enum-payload projections out of a
// value whose nominal type fixes a domain.
func deriveDomainProjection(ctx *deriveCtx, in *ir.Instr) (Info, bool) {
	if in.Kind != ir.InstrField {
		return Info{}, false
	}
	v := ctx.f.Value(in.Field.Object)
	if v == nil {
		return Info{}, false
	}
	t := ctx.m.Type(v.Type)
	if t == nil || !t.Domain.IsValid() {
		return Info{}, false
	}
	if t.Kind == ir.TypeActor {
		return ActorInstanceIsolated(in.Field.Object, t.Domain), true
	}
	return GlobalDomainIsolated(t.Domain), true
}

// deriveDomainGlobal handles references to process-wide storage declared
// under a fixed domain.
func deriveDomainGlobal(ctx *deriveCtx, in *ir.Instr) (Info, bool) {
	if in.Kind != ir.InstrGlobalAddr {
		return Info{}, false
	}
	g := ctx.m.GlobalDecl(in.GlobalAddr.Global)
	if g == nil || !g.Domain.IsValid() {
		return Info{}, false
	}
	return GlobalDomainIsolated(g.Domain), true
}

// deriveFuncRef handles references to domain-isolated functions. An
// instance-isolated function reference is flow-sensitive for the same
// reason as uncaptured closures.
func deriveFuncRef(ctx *deriveCtx, in *ir.Instr) (Info, bool) {
	if in.Kind != ir.InstrFuncRef {
		return Info{}, false
	}
	callee := ctx.m.Func(in.FuncRef.Fn)
	if callee == nil || !callee.Isolation.Domain.IsValid() {
		return Info{}, false
	}
	domain := callee.Isolation.Domain
	if d := ctx.m.Domain(domain); d != nil && d.Kind == ir.DomainInstance {
		return FlowSensitiveActorIsolated(domain), true
	}
	return GlobalDomainIsolated(domain), true
}

// deriveNonisolatedCall handles crossing calls into nonisolated callees:
// the result is bound to no domain.
func deriveNonisolatedCall(ctx *deriveCtx, in *ir.Instr) (Info, bool) {
	if in.Kind != ir.InstrCall || in.Call.Crossing == nil {
		return Info{}, false
	}
	if !in.Call.Crossing.Callee.Nonisolated {
		return Info{}, false
	}
	return Disconnected(), true
}

// DeriveArg assigns an isolation fact to a function parameter. Callers
// are expected to filter out concurrency-safe types and indirect
// result/error slots before tracking; both are exempt.
func DeriveArg(m *ir.Module, f *ir.Func, p ir.Param) Info {
	if p.Conv.Has(ir.ConvIndirectResult) || p.Conv.Has(ir.ConvIndirectError) {
		return Disconnected()
	}

	// Параметры с передачей владения всегда disconnected.
	if p.Conv.Has(ir.ConvSending) {
		return Disconnected()
	}
	if p.Conv.Has(ir.ConvClosureCapture) && f.TypeSendable {
		return Disconnected()
	}

	// An isolated parameter binds every non-sendable parameter of the
	// function to that instance, not just itself.
	if iso := f.IsolatedParam(); iso != ir.NoValue {
		if v := f.Value(iso); v != nil {
			if t := m.Type(v.Type); t != nil && t.Kind == ir.TypeActor && t.Domain.IsValid() {
				return ActorInstanceIsolated(iso, t.Domain)
			}
		}
	}

	if f.Isolation.Domain.IsValid() {
		d := m.Domain(f.Isolation.Domain)
		switch f.Context {
		case ir.ContextAllocator:
			// Constructing the very instance whose domain is not
			// established yet: treat as disconnected inside the body.
			if d != nil && d.Kind == ir.DomainInstance {
				return Disconnected()
			}
		case ir.ContextPropertyInit:
			return AccessorInitIsolated(f.Isolation.Domain)
		}
		if d != nil && d.Kind == ir.DomainGlobal {
			return GlobalDomainIsolated(f.Isolation.Domain)
		}
	}

	return TaskIsolated(p.Value)
}
