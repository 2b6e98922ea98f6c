package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hookmind/internal/logging"
	"hookmind/internal/types"
)

// Event is one entry in the append-only session log.
type Event struct {
	Timestamp time.Time   `json:"timestamp"`
	UserID    string      `json:"user_id"`
	SessionID string      `json:"session_id"`
	Kind      string      `json:"kind"` // signal, dispatch, outcome
	Payload   interface{} `json:"payload,omitempty"`
}

// EventLog appends JSON lines to .hookmind/events.jsonl. Appends from
// concurrent invocations interleave at line granularity; the log is never
// rewritten.
type EventLog struct {
	path string
}

// OpenEventLog returns the event log for a workspace.
func OpenEventLog(workspace string) (*EventLog, error) {
	stateDir := filepath.Join(workspace, ".hookmind")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &EventLog{path: filepath.Join(stateDir, "events.jsonl")}, nil
}

// Append writes one event tagged with the invocation context.
func (l *EventLog) Append(ctx *Context, kind string, payload interface{}) error {
	event := Event{
		Timestamp: time.Now(),
		UserID:    ctx.UserID,
		SessionID: ctx.SessionID,
		Kind:      kind,
		Payload:   payload,
	}
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// AppendSignals tags extracted signals with the invocation context and logs
// them, one event per signal.
func (l *EventLog) AppendSignals(ctx *Context, signals []types.Signal) error {
	for _, s := range signals {
		if err := l.Append(ctx, "signal", s); err != nil {
			return err
		}
	}
	if len(signals) > 0 {
		logging.Get(logging.CategorySession).Debugw("signals logged",
			"sessionId", ctx.SessionID, "count", len(signals))
	}
	return nil
}
