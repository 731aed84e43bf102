package smoke

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
)

// Status is the outcome of a case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Result  *int64                `json:"result,omitempty"`
	Error   *entities.ErrorDetail `json:"error,omitempty"`
	Name    string                `json:"name"`
	Export  string                `json:"export"`
	Status  Status                `json:"status"`
	Args    []int64               `json:"args,omitempty"`
	Imports []entities.ImportCall `json:"imports,omitempty"`
	Trap    bool                  `json:"trap,omitempty"`
}

func (r CaseResult) fail(err error) CaseResult {
	r.Status = StatusFailed
	r.Error = domainerrors.ToErrorDetail(err)
	return r
}

// Report summarizes a suite run.
type Report struct {
	Suite   string       `json:"suite"`
	Results []CaseResult `json:"results"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
}

// OK reports whether no case failed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// WriteText writes one line per case followed by a summary.
func (r *Report) WriteText(w io.Writer) error {
	for _, res := range r.Results {
		assertion := "assert_return"
		if res.Trap {
			assertion = "assert_trap"
		}

		var line string
		switch res.Status {
		case StatusPassed:
			line = fmt.Sprintf("%q.%q: %s success", res.Name, res.Export, assertion)
		case StatusSkipped:
			line = fmt.Sprintf("%q.%q: %s skipped (export missing)", res.Name, res.Export, assertion)
		default:
			line = fmt.Sprintf("%q.%q: %s failed: %s", res.Name, res.Export, assertion, res.Error.Message)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d passed, %d failed, %d skipped\n", r.Suite, r.Passed, r.Failed, r.Skipped)
	return err
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
