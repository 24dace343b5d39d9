package domain

import "time"

// Snapshot is the persisted form of a session's operand stack.
// History is deliberately absent: undo/redo never survive a session.
type Snapshot struct {
	SessionID string    `json:"session_id" yaml:"session_id"`
	Values    []float64 `json:"values" yaml:"values"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// Sealed carries the encrypted form of Values when the store is wrapped by
	// an encrypting middleware. Values is empty in that case.
	Sealed []byte `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}

// NewSnapshot creates a snapshot of the given stack values.
func NewSnapshot(sessionID string, values []float64) *Snapshot {
	v := make([]float64, len(values))
	copy(v, values)
	return &Snapshot{
		SessionID: sessionID,
		Values:    v,
		UpdatedAt: time.Now().UTC(),
	}
}
