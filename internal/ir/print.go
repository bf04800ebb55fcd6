package ir

import (
	"fmt"
	"strings"
)

// Print renders the module in a compact textual form for debugging and
// the `dump` subcommand. The format is not stable and not parsed back.
func Print(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", m.Name)
	for i := 1; i < len(m.Domains); i++ {
		d := &m.Domains[i]
		kind := "global"
		if d.Kind == DomainInstance {
			kind = "instance"
		}
		fmt.Fprintf(&b, "domain @%s (%s)\n", d.Name, kind)
	}
	for i := range m.Globals {
		g := &m.Globals[i]
		fmt.Fprintf(&b, "global %s: %s", g.Name, m.typeName(g.Type))
		if g.Domain != NoDomain {
			fmt.Fprintf(&b, " @%s", m.DomainName(g.Domain))
		}
		b.WriteByte('\n')
	}
	for i := range m.Funcs {
		printFunc(&b, m, &m.Funcs[i])
	}
	return b.String()
}

func (m *Module) typeName(id TypeID) string {
	if t := m.Type(id); t != nil {
		return t.Name
	}
	return "<bad-type>"
}

func printFunc(b *strings.Builder, m *Module, f *Func) {
	fmt.Fprintf(b, "\nfn %s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		var marks []string
		if p.Conv.Has(ConvIsolated) {
			marks = append(marks, "isolated")
		}
		if p.Conv.Has(ConvInoutSending) {
			marks = append(marks, "inout")
		}
		if p.Conv.Has(ConvSending) {
			marks = append(marks, "sending")
		}
		if p.Conv.Has(ConvClosureCapture) {
			marks = append(marks, "capture")
		}
		if len(marks) > 0 {
			fmt.Fprintf(b, "[%s] ", strings.Join(marks, " "))
		}
		v := f.Value(p.Value)
		fmt.Fprintf(b, "%s: %s", f.ValueName(p.Value), m.typeName(v.Type))
	}
	b.WriteString(")")
	if f.Isolation.Domain != NoDomain {
		fmt.Fprintf(b, " @%s", m.DomainName(f.Isolation.Domain))
	}
	if f.Isolation.Nonisolated {
		b.WriteString(" nonisolated")
	}
	b.WriteString(" {\n")
	for bi := range f.Blocks {
		fmt.Fprintf(b, "bb%d:\n", bi)
		for ii := range f.Blocks[bi].Instrs {
			fmt.Fprintf(b, "  %s\n", sprintInstr(m, &f.Blocks[bi].Instrs[ii]))
		}
		fmt.Fprintf(b, "  %s\n", sprintTerm(&f.Blocks[bi].Term))
	}
	b.WriteString("}\n")
}

func sprintInstr(m *Module, in *Instr) string {
	switch in.Kind {
	case InstrAlloc:
		return fmt.Sprintf("%%%d = alloc", in.Alloc.Dst)
	case InstrMove:
		return fmt.Sprintf("%%%d = move %%%d", in.Move.Dst, in.Move.Src)
	case InstrField:
		return fmt.Sprintf("%%%d = field %%%d.%s", in.Field.Dst, in.Field.Object, in.Field.Name)
	case InstrGlobalAddr:
		g := m.GlobalDecl(in.GlobalAddr.Global)
		name := "<bad-global>"
		if g != nil {
			name = g.Name
		}
		return fmt.Sprintf("%%%d = global_addr %s", in.GlobalAddr.Dst, name)
	case InstrFuncRef:
		callee := m.Func(in.FuncRef.Fn)
		name := "<bad-func>"
		if callee != nil {
			name = callee.Name
		}
		return fmt.Sprintf("%%%d = func_ref %s", in.FuncRef.Dst, name)
	case InstrClosure:
		var caps []string
		for _, c := range in.Closure.Captures {
			caps = append(caps, fmt.Sprintf("%%%d", c))
		}
		return fmt.Sprintf("%%%d = closure [%s]", in.Closure.Dst, strings.Join(caps, ", "))
	case InstrCall:
		var args []string
		for _, a := range in.Call.Args {
			s := fmt.Sprintf("%%%d", a.Value)
			if a.Sending {
				s = "sending " + s
			}
			if a.Isolated {
				s = "isolated " + s
			}
			args = append(args, s)
		}
		prefix := ""
		if in.Call.Dst != NoValue {
			prefix = fmt.Sprintf("%%%d = ", in.Call.Dst)
		}
		suffix := ""
		if in.Call.Crossing != nil {
			suffix = " [crossing]"
		}
		return fmt.Sprintf("%scall %s(%s)%s", prefix, in.Call.Callee, strings.Join(args, ", "), suffix)
	case InstrNop:
		return "nop"
	}
	return "<bad-instr>"
}

func sprintTerm(t *Terminator) string {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			return fmt.Sprintf("return %%%d", t.Return.Value)
		}
		return "return"
	case TermGoto:
		return fmt.Sprintf("goto bb%d", t.Goto.Target)
	case TermIf:
		return fmt.Sprintf("if %%%d then bb%d else bb%d", t.If.Cond, t.If.Then, t.If.Else)
	case TermUnreachable:
		return "unreachable"
	}
	return "<unterminated>"
}
