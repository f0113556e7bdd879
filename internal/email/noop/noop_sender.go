package noop

import (
	"context"
	"log"

	"github.com/google/uuid"

	"edifika/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendImportCompleted(_ context.Context, toEmail, toName, originalName string, jobID uuid.UUID) error {
	log.Printf("[NOOP EMAIL] Import %s completed for %s (%s): %s", jobID, toName, toEmail, originalName)
	return nil
}

func (s *noopSender) SendImportFailed(_ context.Context, toEmail, toName, originalName, reason string, jobID uuid.UUID) error {
	log.Printf("[NOOP EMAIL] Import %s failed for %s (%s): %s: %s", jobID, toName, toEmail, originalName, reason)
	return nil
}
