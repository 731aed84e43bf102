package host

import (
	"context"
	"errors"
	"sort"

	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Instance is an instantiated guest module.
//
// Calls on one Instance share the guest's linear memory and globals. The
// host keeps import recording isolated per call, but a guest that keeps
// state must not be called concurrently unless it is written for that;
// serializing such calls is up to the caller.
type Instance struct {
	module   api.Module
	compiled wazero.CompiledModule
	name     string
}

// Invocation is the outcome of a single export call.
type Invocation struct {
	Export  string                `json:"export"`
	Args    []int64               `json:"args"`
	Results []int64               `json:"results"`
	Imports []entities.ImportCall `json:"imports"`
}

// Result returns the first result, or 0 for exports without results.
func (inv Invocation) Result() int64 {
	if len(inv.Results) == 0 {
		return 0
	}
	return inv.Results[0]
}

// Name returns the instance's module name within the runtime.
func (i *Instance) Name() string {
	return i.name
}

// Exports lists the exported functions sorted by name.
func (i *Instance) Exports() []entities.ExportInfo {
	defs := i.compiled.ExportedFunctions()
	out := make([]entities.ExportInfo, 0, len(defs))
	for name, def := range defs {
		out = append(out, entities.ExportInfo{
			Name:    name,
			Params:  typeNames(def.ParamTypes()),
			Results: typeNames(def.ResultTypes()),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// HasExport reports whether the guest exports a function called name.
func (i *Instance) HasExport(name string) bool {
	return i.module.ExportedFunction(name) != nil
}

// Invoke calls an integer-typed export and captures the import calls it made.
// Arguments are wrapped to the parameter width.
func (i *Instance) Invoke(ctx context.Context, name string, args ...int64) (Invocation, error) {
	inv := Invocation{Export: name, Args: args}

	f := i.module.ExportedFunction(name)
	if f == nil {
		return inv, &domainerrors.ExportNotFoundError{Module: i.name, Name: name}
	}

	def := f.Definition()
	params := def.ParamTypes()
	if len(params) != len(args) {
		return inv, &domainerrors.SignatureError{Name: name, Expected: len(params), Got: len(args)}
	}
	if err := checkIntegerTypes(name, params); err != nil {
		return inv, err
	}
	if err := checkIntegerTypes(name, def.ResultTypes()); err != nil {
		return inv, err
	}

	raw := make([]uint64, len(args))
	for k, a := range args {
		raw[k] = encodeValue(params[k], a)
	}

	callCtx, rec := WithCallRecorder(ctx)
	results, err := f.Call(callCtx, raw...)
	inv.Imports = rec.Calls()
	if err != nil {
		return inv, &domainerrors.TrapError{Name: name, Err: err}
	}

	resultTypes := def.ResultTypes()
	inv.Results = make([]int64, len(results))
	for k, r := range results {
		inv.Results[k] = decodeValue(resultTypes[k], r)
	}
	return inv, nil
}

// ExportFunction calls export_function(v).
func (i *Instance) ExportFunction(ctx context.Context, v int64) (int64, error) {
	inv, err := i.Invoke(ctx, entities.ExportFunctionName, v)
	return inv.Result(), err
}

// Sum calls sum(x, y).
func (i *Instance) Sum(ctx context.Context, x, y int64) (int64, error) {
	inv, err := i.Invoke(ctx, entities.SumFunctionName, x, y)
	return inv.Result(), err
}

// Close closes the module instance and its compiled form.
func (i *Instance) Close(ctx context.Context) error {
	return errors.Join(i.module.Close(ctx), i.compiled.Close(ctx))
}
