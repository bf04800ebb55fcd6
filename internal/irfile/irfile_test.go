package irfile

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"sendcheck/internal/ir"
	"sendcheck/internal/source"
)

func sampleModule() *ir.Module {
	return &ir.Module{
		Name:  "sample",
		Files: []string{"app/main.sw"},
		Types: []ir.Type{
			{Name: "Data", Kind: ir.TypeStruct},
			{Name: "Int", Kind: ir.TypeStruct, Sendable: true},
			{Name: "Worker", Kind: ir.TypeActor, Domain: 1},
		},
		Domains: []ir.Domain{
			{},
			{Name: "Worker", Kind: ir.DomainInstance},
		},
		Globals: []ir.Global{
			{Name: "state", Type: 0, Domain: 1},
		},
		Funcs: []ir.Func{{
			ID:   0,
			Name: "handoff",
			Span: source.Span{File: 0, Start: 10, End: 90},
			Values: []ir.Value{
				{},
				{ID: 1, Name: "x", Type: 0, Span: source.Span{Start: 12, End: 13}},
			},
			Params: []ir.Param{{Value: 1, Conv: ir.ConvSending}},
			Blocks: []ir.Block{{
				ID: 0,
				Instrs: []ir.Instr{
					{Kind: ir.InstrCall, Call: ir.CallInstr{
						Callee:   "workerTake",
						Args:     []ir.CallArg{{Value: 1, Sending: true}},
						Crossing: &ir.Crossing{Callee: ir.CrossingIso{Domain: 1}},
					}},
				},
				Term: ir.Terminator{Kind: ir.TermReturn},
			}},
		}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleModule()

	var buf bytes.Buffer
	if err := Encode(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("module changed across round trip (-want +got):\n%s", diff)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	want := sampleModule()
	path := filepath.Join(t.TempDir(), "sample.irx")

	if err := Write(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("module changed across disk round trip (-want +got):\n%s", diff)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a module file")))
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}

	_, err = Decode(bytes.NewReader([]byte("SC")))
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("truncated header: err = %v, want ErrBadMagic", err)
	}
}

func TestDecodeBadSchema(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(magic[:])
	stale, err := msgpack.Marshal(&payload{Schema: schemaVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	buf.Write(stale)

	if _, err := Decode(&buf); !errors.Is(err, ErrBadSchema) {
		t.Errorf("err = %v, want ErrBadSchema", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.irx")); err == nil {
		t.Error("loading a missing file must fail")
	}
}
