// Package smoke runs assertion suites against a loaded guest module.
//
// A suite is a list of export calls with the expected result and the
// expected sequence of import arguments, in the spirit of the
// assert_return/assert_trap scripts used to check interpreters.
package smoke

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
)

var validate = validator.New()

// Case is one assertion.
type Case struct {
	// Expect is the expected first result; nil leaves it unchecked.
	Expect *int64 `yaml:"expect,omitempty" json:"expect,omitempty" jsonschema:"description=Expected result of the export"`

	Name   string  `yaml:"name" json:"name" validate:"required" jsonschema:"description=Case name shown in reports"`
	Export string  `yaml:"export" json:"export" validate:"required" jsonschema:"description=Exported function to call"`
	Args   []int64 `yaml:"args,omitempty" json:"args,omitempty" jsonschema:"description=Integer arguments"`

	// Imports lists the expected import arguments in call order. nil leaves
	// them unchecked; an empty list asserts that the import is never called.
	Imports []int64 `yaml:"imports,omitempty" json:"imports,omitempty" jsonschema:"description=Expected import_function arguments in call order"`

	// Trap expects the call to fail inside the guest.
	Trap bool `yaml:"trap,omitempty" json:"trap,omitempty"`

	// Optional cases are skipped when the export does not exist.
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Suite is a named list of cases.
type Suite struct {
	Name  string `yaml:"name" json:"name" validate:"required"`
	Width int    `yaml:"width,omitempty" json:"width,omitempty" validate:"omitempty,oneof=32 64" jsonschema:"enum=32,enum=64"`
	Cases []Case `yaml:"cases" json:"cases" validate:"required,min=1,dive"`
}

// Parse decodes and validates a YAML suite.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a suite file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	return Parse(data)
}

// Validate checks the suite's struct tags.
func (s *Suite) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &domainerrors.ConfigError{Field: verrs[0].Namespace(), Err: fmt.Errorf("failed on '%s' rule", verrs[0].Tag())}
	}
	return &domainerrors.ConfigError{Err: err}
}

// DefaultSuite asserts the ABI contract at the given width: export_function
// returns i+1 and calls the import once with i*2, sum adds, and both wrap at
// the integer boundaries.
func DefaultSuite(width entities.Width) *Suite {
	lo, hi := int64(math.MinInt32), int64(math.MaxInt32)
	if width == entities.Width64 {
		lo, hi = math.MinInt64, math.MaxInt64
	}

	s := &Suite{Name: "abi-" + width.ValueType(), Width: int(width)}

	for _, i := range []int64{0, 1, entities.DefaultExportArgument, -1, -100, hi, lo} {
		s.Cases = append(s.Cases, Case{
			Name:    fmt.Sprintf("export_function(%d)", i),
			Export:  entities.ExportFunctionName,
			Args:    []int64{i},
			Expect:  ptr(width.Wrap(i + 1)),
			Imports: []int64{width.Wrap(i * 2)},
		})
	}

	pairs := [][2]int64{{0, 0}, {40, 2}, {2, 40}, {-3, 3}, {hi, 1}, {lo, -1}}
	for _, p := range pairs {
		s.Cases = append(s.Cases, Case{
			Name:     fmt.Sprintf("sum(%d, %d)", p[0], p[1]),
			Export:   entities.SumFunctionName,
			Args:     []int64{p[0], p[1]},
			Expect:   ptr(width.Wrap(p[0] + p[1])),
			Imports:  []int64{},
			Optional: true,
		})
	}

	return s
}

func ptr(v int64) *int64 {
	return &v
}
