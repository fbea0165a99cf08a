package audit

import (
	"encoding/json"
	"time"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// SystemActor is recorded when a transition is not driven by a person,
// e.g. a gateway webhook or the statement importer.
const SystemActor = "system"

// Entry is one append-only audit record of an attempted mutation.
type Entry struct {
	ID        int64           `json:"id"`
	Actor     string          `json:"actor"`
	Action    string          `json:"action"`
	TableName string          `json:"table_name"`
	RecordID  string          `json:"record_id"`
	OldData   json.RawMessage `json:"old_data,omitempty"`
	NewData   json.RawMessage `json:"new_data,omitempty"`
	Outcome   Outcome         `json:"outcome"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Filter struct {
	TableName string
	RecordID  string
	Action    string
	Since     *time.Time
	Limit     int
}

// Success describes a mutation that took effect.
func Success(actor, action, table, recordID string, before, after any) Entry {
	return Entry{
		Actor:     actor,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		OldData:   snapshot(before),
		NewData:   snapshot(after),
		Outcome:   OutcomeSuccess,
	}
}

// Failure describes a mutation that was attempted and refused or failed.
func Failure(actor, action, table, recordID string, before any, err error) Entry {
	e := Entry{
		Actor:     actor,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		OldData:   snapshot(before),
		Outcome:   OutcomeFailure,
	}
	if err != nil {
		e.Error = err.Error()
	}

	return e
}

func snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return nil
	}

	return b
}
