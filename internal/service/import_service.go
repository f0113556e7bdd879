package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"edifika/internal/config"
	"edifika/internal/domain"
	"edifika/internal/extract"
	"edifika/internal/inference"
	"edifika/internal/port"
	"edifika/internal/proposal"
)

// shortTranscriptionChars is the length below which a transcription is
// suspiciously short for a commercial proposal and worth a log line.
const shortTranscriptionChars = 300

// ImportUploadInput is the DTO for proposal PDF upload requests.
type ImportUploadInput struct {
	CreatedBy uuid.UUID
	ClientID  *uuid.UUID
	File      multipart.File
	Header    *multipart.FileHeader
}

// ImportPreview is the review payload shown before an import is applied.
type ImportPreview struct {
	Job         *domain.ImportJob            `json:"job"`
	Data        *proposal.ParsedProposalData `json:"data"`
	Confidence  []proposal.FieldGroupScore   `json:"confidence"`
	NeedsReview bool                         `json:"needs_review"`
}

// ApplyImportInput is the DTO for applying a finished import to a proposal.
type ApplyImportInput struct {
	JobID      uuid.UUID
	ProposalID *uuid.UUID // nil creates a new draft proposal
	Title      string
}

// ImportService defines the proposal PDF import contract.
type ImportService interface {
	Upload(ctx context.Context, input ImportUploadInput) (*domain.ImportJob, error)
	Process(ctx context.Context, userID, jobID uuid.UUID) (*domain.ImportJob, error)
	GetByID(ctx context.Context, userID, jobID uuid.UUID) (*domain.ImportJob, error)
	ListByCreator(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.ImportJob, int, error)
	Preview(ctx context.Context, userID, jobID uuid.UUID) (*ImportPreview, error)
	Apply(ctx context.Context, userID uuid.UUID, input ApplyImportInput) (*domain.Proposal, error)
}

type importService struct {
	importRepo   port.ImportJobRepository
	proposalRepo port.ProposalRepository
	userRepo     port.UserRepository
	catalogRepo  port.CatalogRepository
	storage      port.ObjectStorage
	extractor    port.ChatCompleter
	parser       port.ChatCompleter
	email        port.EmailSender
	s3Cfg        *config.S3Config
	importCfg    *config.ImportConfig
}

// NewImportService creates a new ImportService implementation. extractor is
// the multimodal client used for OCR; parser is the text-only client used for
// structuring.
func NewImportService(
	importRepo port.ImportJobRepository,
	proposalRepo port.ProposalRepository,
	userRepo port.UserRepository,
	catalogRepo port.CatalogRepository,
	storage port.ObjectStorage,
	extractor port.ChatCompleter,
	parser port.ChatCompleter,
	email port.EmailSender,
	s3Cfg *config.S3Config,
	importCfg *config.ImportConfig,
) ImportService {
	return &importService{
		importRepo:   importRepo,
		proposalRepo: proposalRepo,
		userRepo:     userRepo,
		catalogRepo:  catalogRepo,
		storage:      storage,
		extractor:    extractor,
		parser:       parser,
		email:        email,
		s3Cfg:        s3Cfg,
		importCfg:    importCfg,
	}
}

// Upload validates the PDF, stores it in object storage and creates the
// durable import job in queued status.
func (s *importService) Upload(ctx context.Context, input ImportUploadInput) (*domain.ImportJob, error) {
	if !strings.EqualFold(filepath.Ext(input.Header.Filename), ".pdf") {
		return nil, domain.ErrNotPDF
	}
	if input.Header.Size > s.importCfg.MaxFileSizeBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte check: the extension alone is easy to spoof.
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	if http.DetectContentType(buf[:n]) != domain.PDFContentType {
		return nil, domain.ErrNotPDF
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	key := fmt.Sprintf("imports/%s/%d-%s",
		input.CreatedBy, time.Now().UnixMilli(), sanitizeFilename(input.Header.Filename))

	job := &domain.ImportJob{
		ID:           uuid.New(),
		CreatedBy:    input.CreatedBy,
		ClientID:     input.ClientID,
		FilePath:     key,
		FileSize:     input.Header.Size,
		OriginalName: input.Header.Filename,
		Status:       domain.ImportStatusQueued,
	}

	log.Printf("importService.Upload: uploading %s (%d bytes) for user %s",
		input.Header.Filename, input.Header.Size, input.CreatedBy)

	// Blob first, row second. A storage failure must not leave a queued job
	// whose object does not exist; a row failure leaves only an orphan blob.
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: domain.PDFContentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("importService.Upload: S3 upload failed for %s: %v", key, err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.importRepo.Create(ctx, job); err != nil {
		log.Printf("importService.Upload: failed to create import job for %s: %v", key, err)
		return nil, fmt.Errorf("creating import job: %w", err)
	}

	return job, nil
}

// Process runs the extraction and parsing stages for a queued or resumed job.
// Only the job's creator may process it. A job whose extraction already
// succeeded skips straight to parsing, so a retry after a parse failure does
// not pay for OCR twice.
func (s *importService) Process(ctx context.Context, userID, jobID uuid.UUID) (*domain.ImportJob, error) {
	job, err := s.loadOwned(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Terminal() {
		return nil, domain.ErrImportTerminal
	}

	if job.Status == domain.ImportStatusQueued {
		if err := s.importRepo.TransitionStatus(ctx, job.ID, domain.ImportStatusQueued, domain.ImportStatusExtracting); err != nil {
			return nil, err
		}
		job.Status = domain.ImportStatusExtracting
	}

	if job.ExtractedText == nil || strings.TrimSpace(*job.ExtractedText) == "" {
		text, err := s.runExtraction(ctx, job)
		if err != nil {
			return nil, s.fail(ctx, job, "ocr", err)
		}
		if err := s.importRepo.SaveExtractedText(ctx, job.ID, text); err != nil {
			return nil, s.fail(ctx, job, "ocr", err)
		}
		job.ExtractedText = &text
	}

	if job.Status == domain.ImportStatusExtracting {
		if err := s.importRepo.TransitionStatus(ctx, job.ID, domain.ImportStatusExtracting, domain.ImportStatusParsing); err != nil {
			return nil, err
		}
		job.Status = domain.ImportStatusParsing
	}

	parsed, err := s.runParsing(ctx, job)
	if err != nil {
		return nil, s.fail(ctx, job, "parse", err)
	}
	raw, err := json.Marshal(parsed)
	if err != nil {
		return nil, s.fail(ctx, job, "parse", err)
	}
	if err := s.importRepo.SaveParsedJSON(ctx, job.ID, raw); err != nil {
		return nil, s.fail(ctx, job, "parse", err)
	}
	job.ParsedJSON = raw

	if err := s.importRepo.TransitionStatus(ctx, job.ID, domain.ImportStatusParsing, domain.ImportStatusDone); err != nil {
		return nil, err
	}
	job.Status = domain.ImportStatusDone

	s.notifyCompleted(ctx, job)
	return job, nil
}

func (s *importService) runExtraction(ctx context.Context, job *domain.ImportJob) (string, error) {
	fileData, err := s.storage.Download(ctx, s.s3Cfg.Bucket, job.FilePath)
	if err != nil {
		return "", fmt.Errorf("downloading pdf: %w", err)
	}
	// The upload gate already checked the multipart header; re-check the
	// actual bytes in case the object was replaced out of band.
	if int64(len(fileData)) > s.importCfg.MaxFileSizeBytes {
		return "", domain.ErrFileTooLarge
	}

	text, err := s.extractor.Complete(ctx, port.CompletionInput{
		Prompt:   extract.BuildOCRPrompt(s.importCfg.MaxPages),
		FileData: fileData,
		FileName: job.OriginalName,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty transcription")
	}
	if len(text) < shortTranscriptionChars {
		log.Printf("importService.runExtraction: job %s transcription is only %d chars, document may be image-only or blank",
			job.ID, len(text))
	}
	return text, nil
}

func (s *importService) runParsing(ctx context.Context, job *domain.ImportJob) (*proposal.ParsedProposalData, error) {
	_, catCodes, unitCodes, err := s.catalogLookup(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := s.parser.Complete(ctx, port.CompletionInput{
		Prompt: extract.BuildParsePrompt(*job.ExtractedText, catCodes, unitCodes),
	})
	if err != nil {
		return nil, err
	}
	return extract.SanitizeModelReply(reply)
}

// fail records a stage-prefixed failure on the job and returns the cause so
// the handler can map rate-limit and credit errors to proper status codes.
func (s *importService) fail(ctx context.Context, job *domain.ImportJob, stage string, cause error) error {
	msg := stage + ": " + failureMessage(cause)
	log.Printf("importService.Process: job %s failed at %s: %v", job.ID, stage, cause)
	if err := s.importRepo.MarkFailed(ctx, job.ID, msg); err != nil {
		log.Printf("importService.Process: marking job %s failed: %v", job.ID, err)
	}
	s.notifyFailed(ctx, job, msg)
	return cause
}

func failureMessage(cause error) string {
	var rateLimited *inference.RateLimitError
	if errors.As(cause, &rateLimited) {
		return "rate limited, retry later"
	}
	var noCredits *inference.CreditsError
	if errors.As(cause, &noCredits) {
		return "insufficient inference credits"
	}
	if errors.Is(cause, domain.ErrModelReplyInvalid) {
		return domain.ErrModelReplyInvalid.Error()
	}
	if errors.Is(cause, domain.ErrFileTooLarge) {
		return domain.ErrFileTooLarge.Error()
	}
	return cause.Error()
}

// loadOwned fetches a job and enforces that the caller created it. Job rows
// carry the extracted document text, so reads are restricted like writes.
func (s *importService) loadOwned(ctx context.Context, userID, jobID uuid.UUID) (*domain.ImportJob, error) {
	job, err := s.importRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CreatedBy != userID {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

func (s *importService) GetByID(ctx context.Context, userID, jobID uuid.UUID) (*domain.ImportJob, error) {
	return s.loadOwned(ctx, userID, jobID)
}

func (s *importService) ListByCreator(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.ImportJob, int, error) {
	return s.importRepo.ListByCreator(ctx, userID, offset, limit)
}

// Preview returns the parsed data with per-group confidence bands for review.
func (s *importService) Preview(ctx context.Context, userID, jobID uuid.UUID) (*ImportPreview, error) {
	job, err := s.loadOwned(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.ImportStatusDone {
		return nil, domain.ErrImportNotReady
	}

	var data proposal.ParsedProposalData
	if err := json.Unmarshal(job.ParsedJSON, &data); err != nil {
		return nil, fmt.Errorf("decoding parsed data for job %s: %w", job.ID, err)
	}

	return &ImportPreview{
		Job:         job,
		Data:        &data,
		Confidence:  data.Confidence.Groups(),
		NeedsReview: data.Confidence.NeedsReview(),
	}, nil
}

// Apply merges the parsed data into an existing proposal or a fresh draft.
// The merge is non-destructive for text fields and replaces line items
// wholesale; the stored parsed data is never modified, so Apply can run again.
func (s *importService) Apply(ctx context.Context, userID uuid.UUID, input ApplyImportInput) (*domain.Proposal, error) {
	job, err := s.loadOwned(ctx, userID, input.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.ImportStatusDone {
		return nil, domain.ErrImportNotReady
	}

	var data proposal.ParsedProposalData
	if err := json.Unmarshal(job.ParsedJSON, &data); err != nil {
		return nil, fmt.Errorf("decoding parsed data for job %s: %w", job.ID, err)
	}

	lookup, _, _, err := s.catalogLookup(ctx)
	if err != nil {
		return nil, err
	}

	if input.ProposalID != nil {
		return s.applyToExisting(ctx, job, &data, lookup, *input.ProposalID)
	}
	return s.applyToNew(ctx, job, &data, lookup, input.Title)
}

func (s *importService) applyToExisting(ctx context.Context, job *domain.ImportJob, data *proposal.ParsedProposalData, lookup *proposal.CatalogLookup, proposalID uuid.UUID) (*domain.Proposal, error) {
	existing, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	draft, err := draftFromProposal(existing)
	if err != nil {
		return nil, err
	}
	merged := proposal.ApplyImport(data, draft, lookup)
	if err := writeDraft(existing, merged); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	if err := s.importRepo.LinkProposal(ctx, job.ID, existing.ID); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *importService) applyToNew(ctx context.Context, job *domain.ImportJob, data *proposal.ParsedProposalData, lookup *proposal.CatalogLookup, title string) (*domain.Proposal, error) {
	if title == "" {
		title = "Imported from " + job.OriginalName
	}
	merged := proposal.ApplyImport(data, proposal.Draft{ClientID: job.ClientID, Title: title}, lookup)

	created := &domain.Proposal{
		ID:        uuid.New(),
		ClientID:  job.ClientID,
		Title:     title,
		Status:    domain.ProposalStatusDraft,
		CreatedBy: job.CreatedBy,
	}
	if err := writeDraft(created, merged); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Create(ctx, created); err != nil {
		return nil, err
	}
	if err := s.importRepo.LinkProposal(ctx, job.ID, created.ID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *importService) catalogLookup(ctx context.Context) (*proposal.CatalogLookup, []string, []string, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	units, err := s.catalogRepo.ListUnits(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(categories) == 0 {
		categories = proposal.BuiltinCategories()
	}
	if len(units) == 0 {
		units = proposal.BuiltinUnits()
	}

	catCodes := make([]string, 0, len(categories))
	for _, c := range categories {
		catCodes = append(catCodes, c.Code)
	}
	unitCodes := make([]string, 0, len(units))
	for _, u := range units {
		unitCodes = append(unitCodes, u.Code)
	}
	return proposal.NewCatalogLookup(categories, units), catCodes, unitCodes, nil
}

func (s *importService) notifyCompleted(ctx context.Context, job *domain.ImportJob) {
	user, err := s.userRepo.GetByID(ctx, job.CreatedBy)
	if err != nil {
		log.Printf("importService.notifyCompleted: loading user %s: %v", job.CreatedBy, err)
		return
	}
	if err := s.email.SendImportCompleted(ctx, user.Email, user.FullName, job.OriginalName, job.ID); err != nil {
		log.Printf("importService.notifyCompleted: sending email for job %s: %v", job.ID, err)
	}
}

func (s *importService) notifyFailed(ctx context.Context, job *domain.ImportJob, reason string) {
	user, err := s.userRepo.GetByID(ctx, job.CreatedBy)
	if err != nil {
		log.Printf("importService.notifyFailed: loading user %s: %v", job.CreatedBy, err)
		return
	}
	if err := s.email.SendImportFailed(ctx, user.Email, user.FullName, job.OriginalName, reason, job.ID); err != nil {
		log.Printf("importService.notifyFailed: sending email for job %s: %v", job.ID, err)
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func draftFromProposal(p *domain.Proposal) (proposal.Draft, error) {
	draft := proposal.Draft{
		ClientID:      p.ClientID,
		Title:         p.Title,
		ScopeText:     p.ScopeText,
		PaymentTerms:  p.PaymentTerms,
		WarrantyTerms: p.WarrantyTerms,
		Exclusions:    p.Exclusions,
		Notes:         p.Notes,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
	}
	if len(p.Items) > 0 {
		if err := json.Unmarshal(p.Items, &draft.Items); err != nil {
			return proposal.Draft{}, fmt.Errorf("decoding proposal items: %w", err)
		}
	}
	return draft, nil
}

func writeDraft(p *domain.Proposal, draft proposal.Draft) error {
	if draft.Items == nil {
		draft.Items = []proposal.Item{}
	}
	items, err := json.Marshal(draft.Items)
	if err != nil {
		return fmt.Errorf("encoding proposal items: %w", err)
	}
	p.ScopeText = draft.ScopeText
	p.PaymentTerms = draft.PaymentTerms
	p.WarrantyTerms = draft.WarrantyTerms
	p.Exclusions = draft.Exclusions
	p.Notes = draft.Notes
	p.DiscountType = draft.DiscountType
	p.DiscountValue = draft.DiscountValue
	p.Items = items
	return nil
}
