package isolation

import (
	"fmt"

	"sendcheck/internal/ir"
)

// Kind orders the lattice: Unknown < Disconnected < Task < Actor.
type Kind uint8

const (
	// KindUnknown means no fact has been established yet. It is never a
	// final, reportable state.
	KindUnknown Kind = iota
	// KindDisconnected means the value is bound to no domain and may be
	// sent freely.
	KindDisconnected
	// KindTask means the value is owned by the concurrent task that
	// created it.
	KindTask
	// KindActor means the value is owned by an exclusive-access domain.
	KindActor
)

// InstanceKind distinguishes how an actor fact identifies its instance.
type InstanceKind uint8

const (
	// InstanceNone: some instance of the domain, identity unknown.
	InstanceNone InstanceKind = iota
	// InstanceValue: the instance is a concrete runtime value.
	InstanceValue
	// InstanceAccessorInit: the instance under construction in a
	// property initializer.
	InstanceAccessorInit
)

// Info is one immutable isolation fact.
type Info struct {
	kind Kind

	// value is the task-isolated value (KindTask) or the actor instance
	// (KindActor with InstanceValue).
	value    ir.ValueID
	instance InstanceKind
	domain   ir.DomainID

	// flowSensitive marks actor facts derived from a closure whose
	// domain instance is supplied per call site. Different call sites
	// may bind different instances of the same domain; the fact
	// conflates them. Known precision limitation.
	flowSensitive bool
}

// Unknown returns the bottom element.
func Unknown() Info {
	return Info{}
}

// Disconnected returns the domain-free fact.
func Disconnected() Info {
	return Info{kind: KindDisconnected}
}

// TaskIsolated returns a fact owned by the task that created v.
func TaskIsolated(v ir.ValueID) Info {
	return Info{kind: KindTask, value: v}
}

// ActorInstanceIsolated returns a fact bound to a concrete instance of
// domain.
func ActorInstanceIsolated(instance ir.ValueID, domain ir.DomainID) Info {
	return Info{kind: KindActor, value: instance, instance: InstanceValue, domain: domain}
}

// GlobalDomainIsolated returns a fact bound to a process-wide domain.
func GlobalDomainIsolated(domain ir.DomainID) Info {
	return Info{kind: KindActor, domain: domain}
}

// AccessorInitIsolated returns a fact bound to the instance being
// constructed in a property initializer.
func AccessorInitIsolated(domain ir.DomainID) Info {
	return Info{kind: KindActor, instance: InstanceAccessorInit, domain: domain}
}

// FlowSensitiveActorIsolated returns an instance-free actor fact for a
// closure whose instance is supplied per call site.
func FlowSensitiveActorIsolated(domain ir.DomainID) Info {
	return Info{kind: KindActor, domain: domain, flowSensitive: true}
}

// Kind returns the lattice rank of the fact.
func (i Info) Kind() Kind {
	return i.kind
}

// IsUnknown reports whether no fact was established.
func (i Info) IsUnknown() bool { return i.kind == KindUnknown }

// IsDisconnected reports whether the value is bound to no domain.
func (i Info) IsDisconnected() bool { return i.kind == KindDisconnected }

// IsTaskIsolated reports whether the value is owned by its creating task.
func (i Info) IsTaskIsolated() bool { return i.kind == KindTask }

// IsActorIsolated reports whether the value is owned by a domain.
func (i Info) IsActorIsolated() bool { return i.kind == KindActor }

// IsFlowSensitive reports the known closure-instance imprecision.
func (i Info) IsFlowSensitive() bool { return i.flowSensitive }

// Domain returns the owning domain for actor facts, NoDomain otherwise.
func (i Info) Domain() ir.DomainID {
	if i.kind != KindActor {
		return ir.NoDomain
	}
	return i.domain
}

// IsolatedValue returns the originating value for task facts and the
// concrete instance for actor facts, NoValue otherwise.
func (i Info) IsolatedValue() ir.ValueID {
	switch i.kind {
	case KindTask:
		return i.value
	case KindActor:
		if i.instance == InstanceValue {
			return i.value
		}
	}
	return ir.NoValue
}

// Instance returns how the actor fact identifies its instance.
func (i Info) Instance() InstanceKind {
	return i.instance
}

// Merge combines two facts. The higher-ranked fact wins. Merging two
// actor facts bound to different domains (or different concrete
// instances) has no sound answer; ok is false in that case and the
// caller must escalate instead of picking a side silently.
func (i Info) Merge(other Info) (merged Info, ok bool) {
	if uint8(other.kind) < uint8(i.kind) {
		return i, true
	}
	if other.IsActorIsolated() && i.IsActorIsolated() && !i.SameIsolation(other) {
		return i, false
	}
	return other, true
}

// SameIsolation reports whether both facts denote the same domain
// binding. For actor facts the domain must match and either both lack a
// concrete instance or both instances are the same runtime value.
func (i Info) SameIsolation(other Info) bool {
	if i.kind != other.kind {
		return false
	}
	switch i.kind {
	case KindUnknown, KindDisconnected:
		return true
	case KindTask:
		return i.value == other.value
	case KindActor:
		if i.domain != other.domain {
			return false
		}
		hasInst1 := i.instance == InstanceValue
		hasInst2 := other.instance == InstanceValue
		if hasInst1 && hasInst2 {
			return i.value == other.value
		}
		if hasInst1 != hasInst2 {
			// one side lacks a concrete instance: treat as the same binding
			return true
		}
		return i.instance == other.instance
	}
	return false
}

// Equal reports full structural equality of two facts.
func (i Info) Equal(other Info) bool {
	if !i.SameIsolation(other) {
		return false
	}
	return i.instance == other.instance && i.value == other.value &&
		i.flowSensitive == other.flowSensitive
}

// String renders the fact for debug output.
func (i Info) String() string {
	switch i.kind {
	case KindUnknown:
		return "unknown"
	case KindDisconnected:
		return "disconnected"
	case KindTask:
		return fmt.Sprintf("task-isolated(%%%d)", i.value)
	case KindActor:
		switch i.instance {
		case InstanceValue:
			return fmt.Sprintf("domain-isolated(#%d, %%%d)", i.domain, i.value)
		case InstanceAccessorInit:
			return fmt.Sprintf("domain-isolated(#%d, self)", i.domain)
		}
		if i.flowSensitive {
			return fmt.Sprintf("domain-isolated(#%d, flow-sensitive)", i.domain)
		}
		return fmt.Sprintf("domain-isolated(#%d)", i.domain)
	}
	return "invalid"
}

// ForDiagnostics renders the fact the way user-facing messages phrase
// it, resolving names through the module and function tables.
func (i Info) ForDiagnostics(m *ir.Module, f *ir.Func) string {
	switch i.kind {
	case KindDisconnected:
		return "disconnected"
	case KindTask:
		return "task-isolated"
	case KindActor:
		switch i.instance {
		case InstanceValue:
			if v := f.Value(i.value); v != nil && v.Name != "" {
				return fmt.Sprintf("'%s'-isolated", v.Name)
			}
		case InstanceAccessorInit:
			return "'self'-isolated"
		}
		return fmt.Sprintf("'%s'-isolated", m.DomainName(i.domain))
	}
	return "unknown"
}
