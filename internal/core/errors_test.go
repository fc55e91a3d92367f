package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cedoromal/persons-admin/internal/api"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error", err: nil, wantCode: ""},
		{name: "missing person id", err: ErrMissingPersonID, wantCode: "VAL001"},
		{name: "wrapped missing person id", err: fmt.Errorf("delete: %w", ErrMissingPersonID), wantCode: "VAL001"},
		{name: "busy dialog", err: ErrSessionBusy, wantCode: "SES001"},
		{name: "file too large", err: fmt.Errorf("%w: 20000 bytes", ErrFileTooLarge), wantCode: "FILE001"},
		{name: "no file", err: ErrNoFile, wantCode: "FILE002"},
		{name: "not found", err: api.ErrNotFound, wantCode: "API004"},
		{name: "connection refused", err: errors.New("list persons: request failed: dial tcp: connection refused"), wantCode: "API001"},
		{name: "deadline", err: errors.New("request failed: context deadline exceeded"), wantCode: "API002"},
		{name: "client timeout", err: errors.New("Client.Timeout exceeded while awaiting headers"), wantCode: "API002"},
		{name: "backend status", err: errors.New("create person: backend returned status 500: boom"), wantCode: "API003"},
		{name: "upload target", err: errors.New("request upload target: backend returned an incomplete descriptor"), wantCode: "IMP001"},
		{name: "transfer status", err: errors.New("transfer failed: storage returned status 403"), wantCode: "IMP002"},
		{name: "foreign upload link", err: errors.New(`upload link "https://x" is outside the storage base "https://y"`), wantCode: "IMP002"},
		{name: "ingestion", err: errors.New("ingest abc.csv: backend returned status 422"), wantCode: "IMP003"},
		{name: "anything else", err: errors.New("some novel failure"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			if tt.err != nil {
				assert.NotEmpty(t, got.Message, "every mapped error needs a user-facing message")
				assert.NotEmpty(t, got.Action, "every mapped error needs actionable guidance")
				assert.NotContains(t, got.Message, tt.err.Error(),
					"technical error text must stay out of user messages")
			}
		})
	}
}

func TestMapErrorSentinelBeatsPattern(t *testing.T) {
	// A wrapped sentinel whose text also matches a pattern resolves by
	// identity, not by text.
	err := fmt.Errorf("request upload target: %w", ErrSessionBusy)
	assert.Equal(t, "SES001", MapError(err).Code)
}
