// Package session supplies the identity/session context that calibration
// records and extracted signals are tagged with, plus the append-only event
// log the caller writes to. Each hook invocation is a fresh process, so the
// context is constructed once per invocation and passed explicitly into
// every component call; nothing here lives in process globals.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hookmind/internal/logging"
)

// Context is the stable identity + per-invocation session tuple.
type Context struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

type identityFile struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds the invocation context for a workspace. The user identity is
// stable across invocations (persisted in .hookmind/identity.json, created
// on first use); the session id is fresh per invocation.
func New(workspace string) (*Context, error) {
	stateDir := filepath.Join(workspace, ".hookmind")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	userID, err := loadOrCreateIdentity(filepath.Join(stateDir, "identity.json"))
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		UserID:    userID,
		SessionID: uuid.NewString(),
		StartedAt: time.Now(),
	}
	logging.Get(logging.CategorySession).Debugw("session context created",
		"sessionId", ctx.SessionID)
	return ctx, nil
}

func loadOrCreateIdentity(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		var id identityFile
		if jsonErr := json.Unmarshal(raw, &id); jsonErr == nil && id.UserID != "" {
			return id.UserID, nil
		}
		// Corrupt identity file: regenerate rather than fail.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read identity file: %w", err)
	}

	id := identityFile{UserID: uuid.NewString(), CreatedAt: time.Now()}
	raw, err = json.MarshalIndent(id, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write identity file: %w", err)
	}
	return id.UserID, nil
}
