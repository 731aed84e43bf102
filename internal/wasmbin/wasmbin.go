// Package wasmbin encodes small WebAssembly binary modules.
//
// It covers exactly the sections hostcall needs to synthesize guest modules
// without an external toolchain: type, import, function, export and code.
// Memories, tables, globals and data are not supported.
package wasmbin

// ValType is a WebAssembly value type.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
)

// Opcodes used by the reference modules.
const (
	OpUnreachable byte = 0x00
	OpEnd         byte = 0x0b
	OpCall        byte = 0x10
	OpDrop        byte = 0x1a
	OpLocalGet    byte = 0x20
	OpI32Const    byte = 0x41
	OpI64Const    byte = 0x42
	OpI32Add      byte = 0x6a
	OpI32Mul      byte = 0x6c
	OpI64Add      byte = 0x7c
	OpI64Mul      byte = 0x7e
)

const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionExport   byte = 7
	sectionCode     byte = 10

	externFunc byte = 0x00
	funcForm   byte = 0x60
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Import is an imported function. Type indexes Module.Types.
type Import struct {
	Module string
	Name   string
	Type   uint32
}

// Func is a defined function. Body holds the instructions including the
// final OpEnd; local declarations are not supported.
type Func struct {
	Type uint32
	Body []byte
}

// Export exposes a function. Func indexes the function index space, in
// which imports come first.
type Export struct {
	Name string
	Func uint32
}

// Module is a WebAssembly module under construction.
type Module struct {
	Types   []FuncType
	Imports []Import
	Funcs   []Func
	Exports []Export
}

// Encode returns the binary encoding of m. Empty sections are omitted.
func (m *Module) Encode() []byte {
	out := append([]byte(nil), header...)

	if len(m.Types) > 0 {
		content := uleb(uint64(len(m.Types)))
		for _, t := range m.Types {
			content = append(content, funcForm)
			content = appendValTypes(content, t.Params)
			content = appendValTypes(content, t.Results)
		}
		out = appendSection(out, sectionType, content)
	}

	if len(m.Imports) > 0 {
		content := uleb(uint64(len(m.Imports)))
		for _, imp := range m.Imports {
			content = appendName(content, imp.Module)
			content = appendName(content, imp.Name)
			content = append(content, externFunc)
			content = append(content, uleb(uint64(imp.Type))...)
		}
		out = appendSection(out, sectionImport, content)
	}

	if len(m.Funcs) > 0 {
		content := uleb(uint64(len(m.Funcs)))
		for _, f := range m.Funcs {
			content = append(content, uleb(uint64(f.Type))...)
		}
		out = appendSection(out, sectionFunction, content)
	}

	if len(m.Exports) > 0 {
		content := uleb(uint64(len(m.Exports)))
		for _, e := range m.Exports {
			content = appendName(content, e.Name)
			content = append(content, externFunc)
			content = append(content, uleb(uint64(e.Func))...)
		}
		out = appendSection(out, sectionExport, content)
	}

	if len(m.Funcs) > 0 {
		content := uleb(uint64(len(m.Funcs)))
		for _, f := range m.Funcs {
			// zero local declarations
			body := append([]byte{0x00}, f.Body...)
			content = append(content, uleb(uint64(len(body)))...)
			content = append(content, body...)
		}
		out = appendSection(out, sectionCode, content)
	}

	return out
}

func appendSection(out []byte, id byte, content []byte) []byte {
	out = append(out, id)
	out = append(out, uleb(uint64(len(content)))...)
	return append(out, content...)
}

func appendName(out []byte, name string) []byte {
	out = append(out, uleb(uint64(len(name)))...)
	return append(out, name...)
}

func appendValTypes(out []byte, types []ValType) []byte {
	out = append(out, uleb(uint64(len(types)))...)
	for _, t := range types {
		out = append(out, byte(t))
	}
	return out
}

// uleb encodes v as unsigned LEB128.
func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

// sleb encodes v as signed LEB128.
func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
