package port

import (
	"context"

	"github.com/google/uuid"
)

// EmailSender defines the contract for sending notification emails.
type EmailSender interface {
	SendImportCompleted(ctx context.Context, toEmail, toName, originalName string, jobID uuid.UUID) error
	SendImportFailed(ctx context.Context, toEmail, toName, originalName, reason string, jobID uuid.UUID) error
}
