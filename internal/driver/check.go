package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sendcheck/internal/diag"
	"sendcheck/internal/ir"
	"sendcheck/internal/irfile"
	"sendcheck/internal/source"
	"sendcheck/internal/transfer"
)

// Result содержит итог проверки одного модуля.
type Result struct {
	Module *ir.Module
	Bag    *diag.Bag

	// FuncsAnalyzed counts the functions that ran through the analysis.
	FuncsAnalyzed int
}

// CheckFile loads, validates and analyzes one module file. Load and
// validation failures surface as diagnostics in the result, not as
// errors; the returned error is reserved for cancellation and
// strict-mode internal failures.
func CheckFile(ctx context.Context, path string, cfg Config, sink Sink) (*Result, error) {
	bag := diag.NewBag(cfg.MaxDiagnostics)
	res := &Result{Bag: bag}

	sink.emit(Event{Stage: StageLoad})
	m, err := irfile.Load(path)
	if err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     loadErrorCode(err),
			Message:  "failed to load module: " + err.Error(),
			Primary:  source.Span{},
		})
		return res, nil
	}
	res.Module = m

	sink.emit(Event{Stage: StageValidate})
	if err := ir.Validate(m); err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IRInvalidModule,
			Message:  fmt.Sprintf("module %s failed validation: %v", m.Name, err),
			Primary:  source.Span{},
		})
		return res, nil
	}

	bags, analyzed, err := analyzeFuncs(ctx, m, cfg, sink)
	if err != nil {
		return nil, err
	}
	res.FuncsAnalyzed = analyzed
	for _, fb := range bags {
		bag.Merge(fb)
	}
	bag.Sort()
	bag.Dedup()
	return res, nil
}

// analyzeFuncs runs the isolation analysis over all functions, bounded
// by cfg.Jobs workers. Each function writes into its own slot, so
// merged output is deterministic no matter how workers interleave.
func analyzeFuncs(ctx context.Context, m *ir.Module, cfg Config, sink Sink) ([]*diag.Bag, int, error) {
	total := len(m.Funcs)
	if total == 0 {
		return nil, 0, nil
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	bags := make([]*diag.Bag, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, total))

	for i := range m.Funcs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			f := &m.Funcs[i]
			fnBag := diag.NewBag(cfg.MaxDiagnostics)
			reporter := diag.NewDedupReporter(diag.BagReporter{Bag: fnBag})
			if err := transfer.Analyze(m, f, reporter, transfer.Options{Strict: cfg.Strict}); err != nil {
				return fmt.Errorf("analysis of %s: %w", f.Name, err)
			}
			bags[i] = fnBag

			sink.emit(Event{
				Stage: StageAnalyze,
				Func:  f.Name,
				Done:  int(done.Add(1)),
				Total: total,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return bags, total, nil
}

func loadErrorCode(err error) diag.Code {
	switch {
	case errors.Is(err, irfile.ErrBadMagic):
		return diag.LoadBadMagic
	case errors.Is(err, irfile.ErrBadSchema):
		return diag.LoadBadSchema
	}
	return diag.LoadDecodeFailure
}
