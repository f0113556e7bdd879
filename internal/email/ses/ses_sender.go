package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/google/uuid"

	"edifika/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendImportCompleted(ctx context.Context, toEmail, toName, originalName string, jobID uuid.UUID) error {
	previewURL := fmt.Sprintf("%s/imports/%s", s.frontendURL, jobID)

	subject := fmt.Sprintf("Import ready: %s", originalName)
	htmlBody := buildImportCompletedHTML(toName, originalName, previewURL)
	textBody := fmt.Sprintf("Hi %s,\n\nThe proposal PDF \"%s\" finished processing. Review the extracted data here:\n%s\n\nEdifika Team", toName, originalName, previewURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendImportFailed(ctx context.Context, toEmail, toName, originalName, reason string, jobID uuid.UUID) error {
	detailURL := fmt.Sprintf("%s/imports/%s", s.frontendURL, jobID)

	subject := fmt.Sprintf("Import failed: %s", originalName)
	htmlBody := buildImportFailedHTML(toName, originalName, reason, detailURL)
	textBody := fmt.Sprintf("Hi %s,\n\nThe proposal PDF \"%s\" could not be processed: %s\n\nDetails:\n%s\n\nEdifika Team", toName, originalName, reason, detailURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildImportCompletedHTML(name, originalName, previewURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your import is ready</h2>
  <p>Hi %s,</p>
  <p>The proposal PDF <strong>%s</strong> finished processing. Review the extracted data before applying it to a proposal:</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review Import</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Edifika - Proposal Management</p>
</body>
</html>`, name, originalName, previewURL, previewURL)
}

func buildImportFailedHTML(name, originalName, reason, detailURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Import failed</h2>
  <p>Hi %s,</p>
  <p>The proposal PDF <strong>%s</strong> could not be processed:</p>
  <p style="color: #B91C1C;">%s</p>
  <p>You can retry the import from its detail page:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Edifika - Proposal Management</p>
</body>
</html>`, name, originalName, reason, detailURL)
}
