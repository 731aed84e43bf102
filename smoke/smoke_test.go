package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
	"github.com/hostcall/hostcall/host"
	"github.com/hostcall/hostcall/internal/wasmbin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func loadInstance(t *testing.T, width entities.Width, snap wasmbin.Snapshot) *host.Instance {
	t.Helper()
	ctx := context.Background()
	e, err := host.NewExecutor(ctx, host.WithWidth(width))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close(ctx) })

	inst, err := e.Load(ctx, wasmbin.ReferenceSnapshot(snap, width).Encode())
	require.NoError(t, err)
	return inst
}

// stubInvoker returns canned invocations.
type stubInvoker struct {
	inv host.Invocation
	err error
}

func (s stubInvoker) Invoke(_ context.Context, name string, args ...int64) (host.Invocation, error) {
	inv := s.inv
	inv.Export = name
	inv.Args = args
	return inv, s.err
}

func TestDefaultSuite_PassesAgainstReference(t *testing.T) {
	for _, width := range []entities.Width{entities.Width32, entities.Width64} {
		t.Run(width.ValueType(), func(t *testing.T) {
			inst := loadInstance(t, width, wasmbin.SnapshotSum)
			report := NewRunner(quiet).Run(context.Background(), inst, DefaultSuite(width))

			for _, res := range report.Results {
				assert.Equal(t, StatusPassed, res.Status, "%s: %v", res.Name, res.Error)
			}
			assert.True(t, report.OK())
			assert.Zero(t, report.Skipped)
		})
	}
}

func TestDefaultSuite_SkipsSumWhenMissing(t *testing.T) {
	inst := loadInstance(t, entities.Width32, wasmbin.SnapshotIncrement)
	report := NewRunner(quiet).Run(context.Background(), inst, DefaultSuite(entities.Width32))

	assert.True(t, report.OK())
	assert.Equal(t, 7, report.Passed)
	assert.Equal(t, 6, report.Skipped)
}

func TestRunner_ResultMismatch(t *testing.T) {
	suite := &Suite{Name: "t", Cases: []Case{{Name: "c", Export: "export_function", Args: []int64{1}, Expect: ptr(2)}}}
	report := NewRunner(quiet).Run(context.Background(), stubInvoker{inv: host.Invocation{Results: []int64{3}}}, suite)

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "assertion", res.Error.Type)
	assert.Equal(t, "result", res.Error.Code)
	assert.False(t, report.OK())
}

func TestRunner_ImportMismatch(t *testing.T) {
	suite := &Suite{Name: "t", Cases: []Case{{Name: "c", Export: "export_function", Args: []int64{1}, Imports: []int64{2}}}}

	tests := []struct {
		name    string
		imports []entities.ImportCall
	}{
		{"not called", nil},
		{"called twice", []entities.ImportCall{{Arg: 2}, {Arg: 2}}},
		{"wrong argument", []entities.ImportCall{{Arg: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := stubInvoker{inv: host.Invocation{Results: []int64{2}, Imports: tt.imports}}
			report := NewRunner(quiet).Run(context.Background(), inv, suite)
			require.Equal(t, 1, report.Failed)
			assert.Equal(t, "imports", report.Results[0].Error.Code)
		})
	}
}

func TestRunner_Trap(t *testing.T) {
	trapSuite := &Suite{Name: "t", Cases: []Case{{Name: "boom", Export: "boom", Trap: true}}}

	trapped := stubInvoker{err: &domainerrors.TrapError{Name: "boom", Err: assert.AnError}}
	report := NewRunner(quiet).Run(context.Background(), trapped, trapSuite)
	assert.Equal(t, 1, report.Passed)

	report = NewRunner(quiet).Run(context.Background(), stubInvoker{}, trapSuite)
	require.Equal(t, 1, report.Failed)
	assert.Equal(t, "trap", report.Results[0].Error.Code)

	returnSuite := &Suite{Name: "t", Cases: []Case{{Name: "c", Export: "boom"}}}
	report = NewRunner(quiet).Run(context.Background(), trapped, returnSuite)
	require.Equal(t, 1, report.Failed)
	assert.Equal(t, "trap", report.Results[0].Error.Type)
}

func TestRunner_MissingExportIsFailureUnlessOptional(t *testing.T) {
	missing := stubInvoker{err: &domainerrors.ExportNotFoundError{Name: "sum"}}

	report := NewRunner(quiet).Run(context.Background(), missing,
		&Suite{Name: "t", Cases: []Case{{Name: "c", Export: "sum"}}})
	assert.Equal(t, 1, report.Failed)

	report = NewRunner(quiet).Run(context.Background(), missing,
		&Suite{Name: "t", Cases: []Case{{Name: "c", Export: "sum", Optional: true}}})
	assert.Equal(t, 1, report.Skipped)
	assert.True(t, report.OK())
}

func TestNewRunner_NilLoggerKeepsDefault(t *testing.T) {
	r := NewRunner(WithLogger(nil))
	require.NotNil(t, r.logger)

	suite := &Suite{Name: "nil", Cases: []Case{{Name: "bad", Export: "export_function", Args: []int64{1}, Expect: ptr(3)}}}
	report := r.Run(context.Background(), stubInvoker{inv: host.Invocation{Results: []int64{2}}}, suite)
	assert.Equal(t, 1, report.Failed)
}

func TestParse(t *testing.T) {
	data := []byte(`
name: increment
width: 32
cases:
  - name: answer
    export: export_function
    args: [41]
    expect: 42
    imports: [82]
  - name: pure sum
    export: sum
    args: [1, 2]
    expect: 3
    imports: []
`)
	suite, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, suite.Cases, 2)

	assert.Equal(t, []int64{41}, suite.Cases[0].Args)
	require.NotNil(t, suite.Cases[0].Expect)
	assert.Equal(t, int64(42), *suite.Cases[0].Expect)
	assert.NotNil(t, suite.Cases[1].Imports, "empty list must stay distinguishable from unset")
	assert.Empty(t, suite.Cases[1].Imports)

	inst := loadInstance(t, entities.Width32, wasmbin.SnapshotSum)
	report := NewRunner(quiet).Run(context.Background(), inst, suite)
	assert.Equal(t, 2, report.Passed)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no cases", "name: x\n"},
		{"case without export", "name: x\ncases:\n  - name: a\n"},
		{"bad width", "name: x\nwidth: 8\ncases:\n  - name: a\n    export: sum\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			var cfgErr *domainerrors.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}

	_, err := Parse([]byte("cases: {"))
	assert.ErrorContains(t, err, "failed to parse suite")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\ncases:\n  - name: a\n    export: sum\n"), 0o600))

	suite, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "x", suite.Name)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read suite")
}

func TestReport_WriteText(t *testing.T) {
	report := &Report{
		Suite: "demo",
		Results: []CaseResult{
			{Name: "a", Export: "export_function", Status: StatusPassed},
			{Name: "b", Export: "sum", Status: StatusSkipped},
			{Name: "c", Export: "boom", Status: StatusFailed, Trap: true, Error: &entities.ErrorDetail{Message: "no trap"}},
		},
		Passed: 1, Failed: 1, Skipped: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf))
	assert.Equal(t, `"a"."export_function": assert_return success
"b"."sum": assert_return skipped (export missing)
"c"."boom": assert_trap failed: no trap
demo: 1 passed, 1 failed, 1 skipped
`, buf.String())
}

func TestReport_WriteJSON(t *testing.T) {
	inst := loadInstance(t, entities.Width32, wasmbin.SnapshotSum)
	report := NewRunner(quiet).Run(context.Background(), inst, DefaultSuite(entities.Width32))

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.Passed, decoded.Passed)
	assert.Equal(t, "abi-i32", decoded.Suite)
	assert.Equal(t, int64(82), decoded.Results[2].Imports[0].Arg)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "hostcall smoke suite", schema["title"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "cases")
	assert.Contains(t, props, "name")
}
