package sync

import "fmt"

// Per-entity-type run states.
const (
	StateNotStarted = "not_started"
	StateFetching   = "fetching"
	StateProcessing = "processing"
	StateCommitted  = "committed"
	StateDone       = "done"
	StateFailed     = "failed"
)

// Result accumulates the outcome of one sync run for one entity type.
// Record-level defects land in Errors without stopping the run; Success
// flips to false only on a whole-entity-type failure.
type Result struct {
	EntityType string   `json:"entity_type"`
	Fetched    int      `json:"fetched"`
	Processed  int      `json:"processed"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Skipped    int      `json:"skipped"`
	Success    bool     `json:"success"`
	State      string   `json:"state"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
}

func newResult(entityType string) *Result {
	return &Result{
		EntityType: entityType,
		Success:    true,
		State:      StateNotStarted,
		Errors:     []string{},
		Warnings:   []string{},
	}
}

// Upsert outcomes folded into the aggregate.
type outcome int

const (
	outcomeCreated outcome = iota
	outcomeUpdated
	outcomeSkipped
)

func (r *Result) fold(o outcome) {
	r.Processed++
	switch o {
	case outcomeCreated:
		r.Created++
	case outcomeUpdated:
		r.Updated++
	case outcomeSkipped:
		r.Skipped++
	}
}

// reject counts a record-level rejection as skipped and records the reason.
func (r *Result) reject(reason string) {
	r.Processed++
	r.Skipped++
	r.Errors = append(r.Errors, reason)
}

func (r *Result) recordError(ref string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", ref, err))
}

// fail marks the whole entity type failed; used only when zero records
// were processed (connectivity failure at the first page or probe).
func (r *Result) fail(err error) {
	r.Success = false
	r.State = StateFailed
	r.Errors = append(r.Errors, err.Error())
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
