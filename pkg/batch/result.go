package batch

import "fmt"

// Result tallies channel outcomes for one run. It is a value: each outcome
// produces a new Result.
type Result struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

func (r Result) withSuccess() Result {
	r.Success++
	return r
}

func (r Result) withFailure() Result {
	r.Failed++
	return r
}

// Total is the number of channels processed
func (r Result) Total() int {
	return r.Success + r.Failed
}

// Summary renders the run's closing log line
func (r Result) Summary() string {
	return fmt.Sprintf("total(%d) success(%d) failed(%d)", r.Total(), r.Success, r.Failed)
}
