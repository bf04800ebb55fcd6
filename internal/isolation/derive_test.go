package isolation

import (
	"testing"

	"sendcheck/internal/ir"
)

const (
	tData   ir.TypeID = 0
	tInt    ir.TypeID = 1
	tWorker ir.TypeID = 2
	tState  ir.TypeID = 3

	dWorker ir.DomainID = 1
	dUI     ir.DomainID = 2
)

func deriveTestModule() *ir.Module {
	return &ir.Module{
		Name: "derive_test",
		Types: []ir.Type{
			{Name: "Data", Kind: ir.TypeStruct},
			{Name: "Int", Kind: ir.TypeStruct, Sendable: true},
			{Name: "Worker", Kind: ir.TypeActor, Domain: dWorker},
			{Name: "UIState", Kind: ir.TypeStruct, Domain: dUI},
		},
		Domains: []ir.Domain{
			{},
			{Name: "Worker", Kind: ir.DomainInstance},
			{Name: "UI", Kind: ir.DomainGlobal},
		},
		Globals: []ir.Global{
			{Name: "pad"},
			{Name: "sharedState", Type: tData, Domain: dUI},
		},
		Funcs: []ir.Func{
			{ID: 0, Name: "uiWork", Isolation: ir.FuncIsolation{Domain: dUI}},
			{ID: 1, Name: "workerMethod", Isolation: ir.FuncIsolation{Domain: dWorker}},
		},
	}
}

func deriveTestFunc() *ir.Func {
	return &ir.Func{
		ID:   2,
		Name: "subject",
		Values: []ir.Value{
			{},
			{ID: 1, Name: "w", Type: tWorker},
			{ID: 2, Name: "d", Type: tData},
			{ID: 3, Name: "dst", Type: tData},
			{ID: 4, Name: "st", Type: tState},
		},
	}
}

func TestDeriveInstRules(t *testing.T) {
	m := deriveTestModule()
	f := deriveTestFunc()

	cases := []struct {
		name     string
		in       ir.Instr
		want     Info
		wantRule string
	}{
		{
			name: "crossing call into global domain",
			in: ir.Instr{Kind: ir.InstrCall, Call: ir.CallInstr{
				Dst:      3,
				Crossing: &ir.Crossing{Callee: ir.CrossingIso{Domain: dUI}},
			}},
			want:     GlobalDomainIsolated(dUI),
			wantRule: "crossing-call",
		},
		{
			name: "crossing call into nonisolated callee",
			in: ir.Instr{Kind: ir.InstrCall, Call: ir.CallInstr{
				Dst:      3,
				Crossing: &ir.Crossing{Callee: ir.CrossingIso{Nonisolated: true}},
			}},
			want:     Disconnected(),
			wantRule: "nonisolated-call",
		},
		{
			name: "isolated receiver binds result to instance",
			in: ir.Instr{Kind: ir.InstrCall, Call: ir.CallInstr{
				Dst:  3,
				Args: []ir.CallArg{{Value: 1, Isolated: true}},
			}},
			want:     ActorInstanceIsolated(1, dWorker),
			wantRule: "isolated-receiver",
		},
		{
			name: "closure formed in global domain context",
			in: ir.Instr{Kind: ir.InstrClosure, Closure: ir.ClosureInstr{
				Dst: 3, Context: ir.ClosureContext{Domain: dUI},
			}},
			want:     GlobalDomainIsolated(dUI),
			wantRule: "closure-context",
		},
		{
			name: "closure capturing its domain instance",
			in: ir.Instr{Kind: ir.InstrClosure, Closure: ir.ClosureInstr{
				Dst: 3, Captures: []ir.ValueID{1}, Context: ir.ClosureContext{Domain: dWorker},
			}},
			want:     ActorInstanceIsolated(1, dWorker),
			wantRule: "closure-context",
		},
		{
			name: "closure without captured instance is flow-sensitive",
			in: ir.Instr{Kind: ir.InstrClosure, Closure: ir.ClosureInstr{
				Dst: 3, Captures: []ir.ValueID{2}, Context: ir.ClosureContext{Domain: dWorker},
			}},
			want:     FlowSensitiveActorIsolated(dWorker),
			wantRule: "closure-context",
		},
		{
			name: "projection out of an actor instance",
			in: ir.Instr{Kind: ir.InstrField, Field: ir.FieldInstr{
				Dst: 3, Object: 1, Name: "queue",
			}},
			want:     ActorInstanceIsolated(1, dWorker),
			wantRule: "domain-projection",
		},
		{
			name: "projection out of a domain-pinned struct",
			in: ir.Instr{Kind: ir.InstrField, Field: ir.FieldInstr{
				Dst: 3, Object: 4, Name: "view",
			}},
			want:     GlobalDomainIsolated(dUI),
			wantRule: "domain-projection",
		},
		{
			name: "domain global reference",
			in: ir.Instr{Kind: ir.InstrGlobalAddr, GlobalAddr: ir.GlobalAddrInstr{
				Dst: 3, Global: 1,
			}},
			want:     GlobalDomainIsolated(dUI),
			wantRule: "domain-global",
		},
		{
			name: "reference to a global-domain function",
			in: ir.Instr{Kind: ir.InstrFuncRef, FuncRef: ir.FuncRefInstr{
				Dst: 3, Fn: 0,
			}},
			want:     GlobalDomainIsolated(dUI),
			wantRule: "func-ref",
		},
		{
			name: "reference to an instance-domain function is flow-sensitive",
			in: ir.Instr{Kind: ir.InstrFuncRef, FuncRef: ir.FuncRefInstr{
				Dst: 3, Fn: 1,
			}},
			want:     FlowSensitiveActorIsolated(dWorker),
			wantRule: "func-ref",
		},
		{
			name:     "alloc matches no rule",
			in:       ir.Instr{Kind: ir.InstrAlloc, Alloc: ir.AllocInstr{Dst: 3}},
			want:     Unknown(),
			wantRule: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, rule := DeriveInstDetailed(m, f, &tc.in)
			if !got.Equal(tc.want) {
				t.Errorf("fact = %v, want %v", got, tc.want)
			}
			if rule != tc.wantRule {
				t.Errorf("rule = %q, want %q", rule, tc.wantRule)
			}
		})
	}
}

func TestDeriveArg(t *testing.T) {
	m := deriveTestModule()

	plain := deriveTestFunc()

	withReceiver := deriveTestFunc()
	withReceiver.Params = []ir.Param{
		{Value: 1, Conv: ir.ConvIsolated},
		{Value: 2},
	}

	allocator := deriveTestFunc()
	allocator.Context = ir.ContextAllocator
	allocator.Isolation = ir.FuncIsolation{Domain: dWorker}

	propInit := deriveTestFunc()
	propInit.Context = ir.ContextPropertyInit
	propInit.Isolation = ir.FuncIsolation{Domain: dWorker}

	uiFunc := deriveTestFunc()
	uiFunc.Isolation = ir.FuncIsolation{Domain: dUI}

	sendableClosure := deriveTestFunc()
	sendableClosure.TypeSendable = true

	cases := []struct {
		name string
		f    *ir.Func
		p    ir.Param
		want Info
	}{
		{"sending is disconnected", plain, ir.Param{Value: 2, Conv: ir.ConvSending}, Disconnected()},
		{"indirect result is exempt", plain, ir.Param{Value: 2, Conv: ir.ConvIndirectResult}, Disconnected()},
		{"capture of sendable closure", sendableClosure, ir.Param{Value: 2, Conv: ir.ConvClosureCapture}, Disconnected()},
		{"isolated receiver binds itself", withReceiver, ir.Param{Value: 1, Conv: ir.ConvIsolated}, ActorInstanceIsolated(1, dWorker)},
		{"isolated receiver binds siblings", withReceiver, ir.Param{Value: 2}, ActorInstanceIsolated(1, dWorker)},
		{"allocator body is disconnected", allocator, ir.Param{Value: 2}, Disconnected()},
		{"property initializer", propInit, ir.Param{Value: 2}, AccessorInitIsolated(dWorker)},
		{"global domain function", uiFunc, ir.Param{Value: 2}, GlobalDomainIsolated(dUI)},
		{"default is task isolated", plain, ir.Param{Value: 2}, TaskIsolated(2)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveArg(m, tc.f, tc.p); !got.Equal(tc.want) {
				t.Errorf("DeriveArg = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsNonSendableType(t *testing.T) {
	m := &ir.Module{Types: []ir.Type{
		{Name: "Data", Kind: ir.TypeStruct},
		{Name: "Int", Kind: ir.TypeStruct, Sendable: true},
		{Name: "Ptr", Kind: ir.TypeRawPtr, Sendable: true},
		{Name: "Handle", Kind: ir.TypeHandle, Sendable: true},
		{Name: "Token", Kind: ir.TypeToken},
	}}

	cases := []struct {
		id   ir.TypeID
		want bool
	}{
		{0, true},
		{1, false},
		{2, true},  // raw pointers are tracked no matter what the frontend says
		{3, true},  // native handles too
		{4, false}, // synchronization tokens never escape their function
		{99, true}, // unknown types are tracked conservatively
	}
	for _, tc := range cases {
		if got := IsNonSendableType(m, tc.id); got != tc.want {
			t.Errorf("IsNonSendableType(%d) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
