package wasmbin

import (
	"fmt"

	"github.com/hostcall/hostcall/domain/entities"
)

// Snapshot selects one of the historical shapes of the guest module.
type Snapshot string

const (
	// SnapshotSum exports export_function and sum.
	SnapshotSum Snapshot = "sum"
	// SnapshotIncrement exports export_function only.
	SnapshotIncrement Snapshot = "increment"
	// SnapshotCommand exports export_function and an empty _start entry point.
	SnapshotCommand Snapshot = "command"
)

// Snapshots lists the supported snapshots.
var Snapshots = []Snapshot{SnapshotSum, SnapshotIncrement, SnapshotCommand}

// ParseSnapshot validates a snapshot name.
func ParseSnapshot(s string) (Snapshot, error) {
	for _, snap := range Snapshots {
		if string(snap) == s {
			return snap, nil
		}
	}
	return "", fmt.Errorf("unknown snapshot %q: must be one of %v", s, Snapshots)
}

type widthOps struct {
	val   ValType
	konst byte
	add   byte
	mul   byte
}

func opsFor(width entities.Width) widthOps {
	if width == entities.Width64 {
		return widthOps{val: I64, konst: OpI64Const, add: OpI64Add, mul: OpI64Mul}
	}
	return widthOps{val: I32, konst: OpI32Const, add: OpI32Add, mul: OpI32Mul}
}

// Reference returns the module with export_function and sum at the given width.
func Reference(width entities.Width) []byte {
	return ReferenceSnapshot(SnapshotSum, width).Encode()
}

// ReferenceSnapshot builds the guest module for a snapshot. The import is
// always env.import_function and is function index 0.
func ReferenceSnapshot(snap Snapshot, width entities.Width) *Module {
	ops := opsFor(width)

	m := &Module{
		Types: []FuncType{
			{Params: []ValType{ops.val}, Results: []ValType{ops.val}},
			{Params: []ValType{ops.val, ops.val}, Results: []ValType{ops.val}},
			{},
		},
		Imports: []Import{
			{Module: entities.DefaultImportModule, Name: entities.ImportFunctionName, Type: 0},
		},
	}

	// export_function(i): import_function(i*2); return i+1
	incr := []byte{OpLocalGet, 0}
	incr = append(incr, ops.konst)
	incr = append(incr, sleb(2)...)
	incr = append(incr, ops.mul, OpCall, 0, OpDrop, OpLocalGet, 0, ops.konst)
	incr = append(incr, sleb(1)...)
	incr = append(incr, ops.add, OpEnd)
	m.AddFunc(entities.ExportFunctionName, 0, incr)

	switch snap {
	case SnapshotSum:
		m.AddFunc(entities.SumFunctionName, 1, []byte{OpLocalGet, 0, OpLocalGet, 1, ops.add, OpEnd})
	case SnapshotCommand:
		m.AddFunc("_start", 2, []byte{OpEnd})
	}

	return m
}

// AddFunc appends a function and exports it under name.
func (m *Module) AddFunc(name string, typeIdx uint32, body []byte) {
	idx := uint32(len(m.Imports) + len(m.Funcs)) //nolint:gosec // G115: tiny modules
	m.Funcs = append(m.Funcs, Func{Type: typeIdx, Body: body})
	m.Exports = append(m.Exports, Export{Name: name, Func: idx})
}
