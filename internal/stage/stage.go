// Package stage defines the shared outcome vocabulary for pipeline stages.
// Every stage finishes in exactly one of four states, and the orchestrator
// bases its abort decision and the run exit code on them alone.
package stage

import "fmt"

// Status is the terminal state of one stage execution.
type Status string

const (
	// StatusOK means the stage completed its work for every item.
	StatusOK Status = "ok"
	// StatusFailed means the stage could not produce its required output.
	StatusFailed Status = "failed"
	// StatusSkipped means the stage did not run, by configuration or because
	// an upstream abort removed its inputs.
	StatusSkipped Status = "skipped"
	// StatusPartial means the stage succeeded for some items but not all.
	StatusPartial Status = "partial"
)

// Succeeded reports whether downstream stages may treat this outcome as
// having produced usable output.
func (s Status) Succeeded() bool {
	return s == StatusOK || s == StatusPartial
}

// Result captures one stage's outcome for the run summary.
type Result struct {
	Name   string
	Status Status
	// Detail is a short human summary, e.g. "3/4 episodes usable".
	Detail string
	// Err holds the failure cause when Status is StatusFailed.
	Err error
}

// OK builds a successful result.
func OK(name, detail string) Result {
	return Result{Name: name, Status: StatusOK, Detail: detail}
}

// Failed builds a failed result with its cause.
func Failed(name string, err error) Result {
	return Result{Name: name, Status: StatusFailed, Detail: errDetail(err), Err: err}
}

// Skipped builds a skipped result with the reason it did not run.
func Skipped(name, reason string) Result {
	return Result{Name: name, Status: StatusSkipped, Detail: reason}
}

// Partial builds a partial result.
func Partial(name, detail string) Result {
	return Result{Name: name, Status: StatusPartial, Detail: detail}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Counted derives a status from per-item bookkeeping: all items succeeding is
// ok, none is failed, a mix is partial. Stages with no items decide their own
// status before calling this.
func Counted(name string, succeeded, failed int, detail string) Result {
	switch {
	case failed == 0:
		return Result{Name: name, Status: StatusOK, Detail: detail}
	case succeeded == 0:
		return Result{
			Name:   name,
			Status: StatusFailed,
			Detail: detail,
			Err:    fmt.Errorf("%s: all %d items failed", name, failed),
		}
	default:
		return Result{Name: name, Status: StatusPartial, Detail: detail}
	}
}
