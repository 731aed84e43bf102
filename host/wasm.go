package host

import (
	"context"
	"fmt"

	"github.com/hostcall/hostcall/domain/entities"
	"github.com/tetratelabs/wazero/api"
)

func (e *Executor) registerImports(ctx context.Context) error {
	vt := valueTypeFor(e.config.width)

	_, err := e.runtime.NewHostModuleBuilder(e.config.moduleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(e.importFunction), []api.ValueType{vt}, []api.ValueType{vt}).
		Export(e.config.importName).
		Instantiate(ctx)
	return err
}

// importFunction is the body of env.import_function.
func (e *Executor) importFunction(ctx context.Context, _ api.Module, stack []uint64) {
	vt := valueTypeFor(e.config.width)
	arg := decodeValue(vt, stack[0])
	res := e.config.width.Wrap(e.config.handler(ctx, arg))

	call := entities.ImportCall{Function: e.config.importName, Arg: arg, Result: res}
	if e.config.recorder != nil {
		e.config.recorder.Record(call)
	}
	if r := callRecorderFrom(ctx); r != nil {
		r.Record(call)
	}

	e.config.logger.DebugContext(ctx, "host: import called",
		"function", e.config.importName, "arg", arg, "result", res)

	stack[0] = encodeValue(vt, res)
}

func valueTypeFor(w entities.Width) api.ValueType {
	if w == entities.Width64 {
		return api.ValueTypeI64
	}
	return api.ValueTypeI32
}

// encodeValue converts an integer to its stack representation, wrapping
// to 32 bits for i32.
func encodeValue(vt api.ValueType, v int64) uint64 {
	if vt == api.ValueTypeI32 {
		return api.EncodeI32(int32(v)) //nolint:gosec // G115: two's-complement wraparound is the ABI
	}
	return api.EncodeI64(v)
}

func decodeValue(vt api.ValueType, raw uint64) int64 {
	if vt == api.ValueTypeI32 {
		return int64(api.DecodeI32(raw))
	}
	return int64(raw) //nolint:gosec // G115: i64 stack slots are two's complement
}

func checkIntegerTypes(name string, types []api.ValueType) error {
	for _, t := range types {
		if t != api.ValueTypeI32 && t != api.ValueTypeI64 {
			return fmt.Errorf("export %q uses unsupported value type %s", name, api.ValueTypeName(t))
		}
	}
	return nil
}

func typeNames(types []api.ValueType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = api.ValueTypeName(t)
	}
	return out
}
