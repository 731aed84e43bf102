package smoke

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
	"github.com/hostcall/hostcall/host"
)

// Invoker calls guest exports. *host.Instance implements it.
type Invoker interface {
	Invoke(ctx context.Context, name string, args ...int64) (host.Invocation, error)
}

// Runner executes suites.
type Runner struct {
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for per-case diagnostics.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every case in order. Cases never abort the suite; each
// failure is recorded in the report.
func (r *Runner) Run(ctx context.Context, inv Invoker, suite *Suite) *Report {
	report := &Report{Suite: suite.Name}

	for _, c := range suite.Cases {
		res := r.runCase(ctx, inv, c)
		switch res.Status {
		case StatusPassed:
			report.Passed++
		case StatusFailed:
			report.Failed++
			r.logger.WarnContext(ctx, "smoke: case failed", "case", c.Name, "error", res.Error)
		case StatusSkipped:
			report.Skipped++
		}
		report.Results = append(report.Results, res)
	}

	r.logger.InfoContext(ctx, "smoke: suite finished",
		"suite", suite.Name, "passed", report.Passed, "failed", report.Failed, "skipped", report.Skipped)
	return report
}

func (r *Runner) runCase(ctx context.Context, inv Invoker, c Case) CaseResult {
	res := CaseResult{Name: c.Name, Export: c.Export, Args: c.Args, Trap: c.Trap}

	out, err := inv.Invoke(ctx, c.Export, c.Args...)
	res.Imports = out.Imports
	r.logger.DebugContext(ctx, "smoke: case executed", "case", c.Name, "results", out.Results, "imports", len(out.Imports))

	var notFound *domainerrors.ExportNotFoundError
	if c.Optional && errors.As(err, &notFound) {
		res.Status = StatusSkipped
		return res
	}

	var trap *domainerrors.TrapError
	if c.Trap {
		if errors.As(err, &trap) {
			res.Status = StatusPassed
			return res
		}
		if err == nil {
			err = &domainerrors.AssertionError{Case: c.Name, Field: "trap", Expected: true, Actual: false}
		}
		return res.fail(err)
	}
	if err != nil {
		return res.fail(err)
	}

	result := out.Result()
	res.Result = &result

	if c.Expect != nil && *c.Expect != result {
		return res.fail(&domainerrors.AssertionError{Case: c.Name, Field: "result", Expected: *c.Expect, Actual: result})
	}

	if c.Imports != nil {
		got := importArgs(out.Imports)
		if !slices.Equal(c.Imports, got) {
			return res.fail(&domainerrors.AssertionError{Case: c.Name, Field: "imports", Expected: c.Imports, Actual: got})
		}
	}

	res.Status = StatusPassed
	return res
}

func importArgs(calls []entities.ImportCall) []int64 {
	out := make([]int64, len(calls))
	for i, c := range calls {
		out[i] = c.Arg
	}
	return out
}
