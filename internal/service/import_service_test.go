package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"edifika/internal/config"
	"edifika/internal/domain"
	"edifika/internal/inference"
	"edifika/internal/port"
	"edifika/internal/proposal"
	"edifika/internal/service"
	"edifika/mocks"
)

type importFixture struct {
	importRepo   *mocks.MockImportJobRepo
	proposalRepo *mocks.MockProposalRepo
	userRepo     *mocks.MockUserRepo
	catalogRepo  *mocks.MockCatalogRepo
	storage      *mocks.MockObjectStorage
	extractor    *mocks.MockChatCompleter
	parser       *mocks.MockChatCompleter
	email        *mocks.MockEmailSender
	svc          service.ImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		importRepo:   new(mocks.MockImportJobRepo),
		proposalRepo: new(mocks.MockProposalRepo),
		userRepo:     new(mocks.MockUserRepo),
		catalogRepo:  new(mocks.MockCatalogRepo),
		storage:      new(mocks.MockObjectStorage),
		extractor:    new(mocks.MockChatCompleter),
		parser:       new(mocks.MockChatCompleter),
		email:        new(mocks.MockEmailSender),
	}
	s3Cfg := &config.S3Config{Region: "sa-east-1", Bucket: "test-bucket"}
	importCfg := &config.ImportConfig{MaxFileSizeBytes: 15 * 1024 * 1024, MaxPages: 10}
	f.svc = service.NewImportService(
		f.importRepo, f.proposalRepo, f.userRepo, f.catalogRepo,
		f.storage, f.extractor, f.parser, f.email, s3Cfg, importCfg,
	)
	return f
}

// createMultipartFile builds a fake multipart file and header for upload tests.
func createMultipartFile(filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 proposta de reforma com conteudo suficiente para deteccao")
}

func pngContent() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 100)...)
}

const parsedReply = `{
  "scope_text": "Pintura completa da fachada",
  "payment_terms": "30 dias",
  "warranty_terms": null,
  "exclusions": null,
  "notes": null,
  "totals": {"subtotal": 5400.0, "discount_type": null, "discount_value": null, "total": 5400.0},
  "items": [
    {"category": "serviços", "description": "Pintura de fachada", "unit": "m2", "quantity": 120, "unit_price": 45.0, "total": 5400.0}
  ],
  "confidence": {"scope_text": 0.85, "payment_terms": 0.9, "warranty_terms": 0.6, "exclusions": 0.6, "notes": 0.6, "totals": 0.95, "items": 0.9}
}`

func TestImportService_Upload_Success(t *testing.T) {
	f := newImportFixture()
	userID := uuid.New()

	file, header := createMultipartFile("proposta final.pdf", pdfContent())
	defer file.Close()

	f.importRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ImportJob")).Return(nil)
	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x", ETag: "abc"}, nil)

	job, err := f.svc.Upload(context.Background(), service.ImportUploadInput{
		CreatedBy: userID,
		File:      file,
		Header:    header,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ImportStatusQueued, job.Status)
	assert.Equal(t, "proposta final.pdf", job.OriginalName)

	keyPattern := fmt.Sprintf(`^imports/%s/\d+-proposta_final\.pdf$`, userID)
	assert.Regexp(t, regexp.MustCompile(keyPattern), job.FilePath)

	f.importRepo.AssertExpectations(t)
	f.storage.AssertExpectations(t)
}

func TestImportService_Upload_RejectsWrongExtension(t *testing.T) {
	f := newImportFixture()

	file, header := createMultipartFile("planilha.xlsx", []byte("PK fake xlsx"))
	defer file.Close()

	job, err := f.svc.Upload(context.Background(), service.ImportUploadInput{
		CreatedBy: uuid.New(),
		File:      file,
		Header:    header,
	})

	assert.Nil(t, job)
	assert.ErrorIs(t, err, domain.ErrNotPDF)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestImportService_Upload_RejectsSpoofedExtension(t *testing.T) {
	f := newImportFixture()

	// PNG bytes behind a .pdf name must not pass the magic-byte check.
	file, header := createMultipartFile("imagem.pdf", pngContent())
	defer file.Close()

	job, err := f.svc.Upload(context.Background(), service.ImportUploadInput{
		CreatedBy: uuid.New(),
		File:      file,
		Header:    header,
	})

	assert.Nil(t, job)
	assert.ErrorIs(t, err, domain.ErrNotPDF)
}

func TestImportService_Upload_RejectsOversizedFile(t *testing.T) {
	f := newImportFixture()

	file, header := createMultipartFile("grande.pdf", pdfContent())
	defer file.Close()
	header.Size = 16 * 1024 * 1024

	job, err := f.svc.Upload(context.Background(), service.ImportUploadInput{
		CreatedBy: uuid.New(),
		File:      file,
		Header:    header,
	})

	assert.Nil(t, job)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestImportService_Upload_StorageFailureCreatesNoJob(t *testing.T) {
	f := newImportFixture()

	file, header := createMultipartFile("proposta.pdf", pdfContent())
	defer file.Close()

	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, errors.New("connection reset"))

	job, err := f.svc.Upload(context.Background(), service.ImportUploadInput{
		CreatedBy: uuid.New(),
		File:      file,
		Header:    header,
	})

	assert.Nil(t, job)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	// The blob never made it to storage, so no queued row may exist either.
	f.importRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImportService_Upload_RowFailureToleratesOrphanBlob(t *testing.T) {
	f := newImportFixture()

	file, header := createMultipartFile("proposta.pdf", pdfContent())
	defer file.Close()

	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x"}, nil)
	f.importRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ImportJob")).
		Return(errors.New("connection refused"))

	job, err := f.svc.Upload(context.Background(), service.ImportUploadInput{
		CreatedBy: uuid.New(),
		File:      file,
		Header:    header,
	})

	assert.Nil(t, job)
	assert.Error(t, err)
	// The blob is already uploaded at this point and stays behind; no job row
	// references it and nothing is marked failed.
	f.storage.AssertExpectations(t)
	f.importRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func queuedJob() *domain.ImportJob {
	return &domain.ImportJob{
		ID:           uuid.New(),
		CreatedBy:    uuid.New(),
		FilePath:     "imports/u/1-proposta.pdf",
		FileSize:     1024,
		OriginalName: "proposta.pdf",
		Status:       domain.ImportStatusQueued,
	}
}

func expectEmptyCatalog(f *importFixture) {
	f.catalogRepo.On("ListCategories", mock.Anything).Return([]domain.ItemCategory{}, nil)
	f.catalogRepo.On("ListUnits", mock.Anything).Return([]domain.ItemUnit{}, nil)
}

func expectNotify(f *importFixture, job *domain.ImportJob) {
	f.userRepo.On("GetByID", mock.Anything, job.CreatedBy).
		Return(&domain.User{ID: job.CreatedBy, Email: "eng@edifika.app", FullName: "Eng"}, nil)
	f.email.On("SendImportCompleted", mock.Anything, "eng@edifika.app", "Eng", job.OriginalName, job.ID).Return(nil)
	f.email.On("SendImportFailed", mock.Anything, "eng@edifika.app", "Eng", job.OriginalName, mock.AnythingOfType("string"), job.ID).Return(nil)
}

func TestImportService_Process_HappyPath(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	f.importRepo.On("TransitionStatus", mock.Anything, job.ID, domain.ImportStatusQueued, domain.ImportStatusExtracting).Return(nil)
	f.storage.On("Download", mock.Anything, "test-bucket", job.FilePath).Return(pdfContent(), nil)
	f.extractor.On("Complete", mock.Anything, mock.AnythingOfType("port.CompletionInput")).Return("PROPOSTA COMERCIAL\nPintura de fachada 120 m2 R$ 45,00 R$ 5.400,00", nil)
	f.importRepo.On("SaveExtractedText", mock.Anything, job.ID, mock.AnythingOfType("string")).Return(nil)
	f.importRepo.On("TransitionStatus", mock.Anything, job.ID, domain.ImportStatusExtracting, domain.ImportStatusParsing).Return(nil)
	expectEmptyCatalog(f)
	f.parser.On("Complete", mock.Anything, mock.AnythingOfType("port.CompletionInput")).Return(parsedReply, nil)
	f.importRepo.On("SaveParsedJSON", mock.Anything, job.ID, mock.AnythingOfType("json.RawMessage")).Return(nil)
	f.importRepo.On("TransitionStatus", mock.Anything, job.ID, domain.ImportStatusParsing, domain.ImportStatusDone).Return(nil)
	expectNotify(f, job)

	result, err := f.svc.Process(context.Background(), job.CreatedBy, job.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.ImportStatusDone, result.Status)
	assert.NotEmpty(t, result.ParsedJSON)

	var data proposal.ParsedProposalData
	assert.NoError(t, json.Unmarshal(result.ParsedJSON, &data))
	assert.Len(t, data.Items, 1)
	assert.Equal(t, "Pintura de fachada", data.Items[0].Description)

	f.importRepo.AssertExpectations(t)
	f.email.AssertCalled(t, "SendImportCompleted", mock.Anything, "eng@edifika.app", "Eng", job.OriginalName, job.ID)
}

func TestImportService_Process_SkipsExtractionWhenTextPresent(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	text := "texto ja extraido da proposta"
	job.Status = domain.ImportStatusExtracting
	job.ExtractedText = &text

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	f.importRepo.On("TransitionStatus", mock.Anything, job.ID, domain.ImportStatusExtracting, domain.ImportStatusParsing).Return(nil)
	expectEmptyCatalog(f)
	f.parser.On("Complete", mock.Anything, mock.AnythingOfType("port.CompletionInput")).Return(parsedReply, nil)
	f.importRepo.On("SaveParsedJSON", mock.Anything, job.ID, mock.AnythingOfType("json.RawMessage")).Return(nil)
	f.importRepo.On("TransitionStatus", mock.Anything, job.ID, domain.ImportStatusParsing, domain.ImportStatusDone).Return(nil)
	expectNotify(f, job)

	result, err := f.svc.Process(context.Background(), job.CreatedBy, job.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.ImportStatusDone, result.Status)
	f.extractor.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	f.storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportService_Process_WrongOwner(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	result, err := f.svc.Process(context.Background(), uuid.New(), job.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.extractor.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestImportService_Process_OversizedStoredFile(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	f.importRepo.On("TransitionStatus", mock.Anything, job.ID, domain.ImportStatusQueued, domain.ImportStatusExtracting).Return(nil)
	f.storage.On("Download", mock.Anything, "test-bucket", job.FilePath).
		Return(bytes.Repeat([]byte{0x25}, 16*1024*1024), nil)
	f.importRepo.On("MarkFailed", mock.Anything, job.ID, "ocr: file exceeds 15MB").Return(nil)
	expectNotify(f, job)

	result, err := f.svc.Process(context.Background(), job.CreatedBy, job.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	f.extractor.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	f.importRepo.AssertExpectations(t)
}

func TestImportService_Process_TerminalJob(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	job.Status = domain.ImportStatusDone

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	result, err := f.svc.Process(context.Background(), job.CreatedBy, job.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrImportTerminal)
}

func TestImportService_Process_OCRRateLimited(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	f.importRepo.On("TransitionStatus", mock.Anything, job.ID, domain.ImportStatusQueued, domain.ImportStatusExtracting).Return(nil)
	f.storage.On("Download", mock.Anything, "test-bucket", job.FilePath).Return(pdfContent(), nil)
	f.extractor.On("Complete", mock.Anything, mock.AnythingOfType("port.CompletionInput")).
		Return("", inference.NewRateLimitError("openai", errors.New("429"), 30))
	f.importRepo.On("MarkFailed", mock.Anything, job.ID, "ocr: rate limited, retry later").Return(nil)
	expectNotify(f, job)

	result, err := f.svc.Process(context.Background(), job.CreatedBy, job.ID)

	assert.Nil(t, result)
	var rateLimited *inference.RateLimitError
	assert.True(t, errors.As(err, &rateLimited))
	f.importRepo.AssertExpectations(t)
}

func TestImportService_Process_ParseCreditsExhausted(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	text := "texto extraido"
	job.Status = domain.ImportStatusParsing
	job.ExtractedText = &text

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	expectEmptyCatalog(f)
	f.parser.On("Complete", mock.Anything, mock.AnythingOfType("port.CompletionInput")).
		Return("", &inference.CreditsError{Provider: "openai", Err: errors.New("402")})
	f.importRepo.On("MarkFailed", mock.Anything, job.ID, "parse: insufficient inference credits").Return(nil)
	expectNotify(f, job)

	result, err := f.svc.Process(context.Background(), job.CreatedBy, job.ID)

	assert.Nil(t, result)
	var noCredits *inference.CreditsError
	assert.True(t, errors.As(err, &noCredits))
	f.importRepo.AssertExpectations(t)
}

func TestImportService_Process_GarbageModelReply(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	text := "texto extraido"
	job.Status = domain.ImportStatusParsing
	job.ExtractedText = &text

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	expectEmptyCatalog(f)
	f.parser.On("Complete", mock.Anything, mock.AnythingOfType("port.CompletionInput")).
		Return("Desculpe, não consegui processar.", nil)
	f.importRepo.On("MarkFailed", mock.Anything, job.ID, "parse: could not interpret AI response").Return(nil)
	expectNotify(f, job)

	result, err := f.svc.Process(context.Background(), job.CreatedBy, job.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrModelReplyInvalid)
	f.importRepo.AssertExpectations(t)
}

func TestImportService_Preview_Success(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	job.Status = domain.ImportStatusDone
	job.ParsedJSON = json.RawMessage(parsedReply)

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	preview, err := f.svc.Preview(context.Background(), job.CreatedBy, job.ID)

	assert.NoError(t, err)
	assert.Equal(t, job.ID, preview.Job.ID)
	assert.Len(t, preview.Data.Items, 1)
	assert.Len(t, preview.Confidence, 7)
	assert.False(t, preview.NeedsReview)

	// items scored 0.9, which is the high band.
	for _, g := range preview.Confidence {
		if g.Group == "items" {
			assert.Equal(t, 0.9, g.Score)
			assert.Equal(t, proposal.BandHigh, g.Band)
		}
	}
}

func TestImportService_Preview_NotReady(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	job.Status = domain.ImportStatusParsing

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	preview, err := f.svc.Preview(context.Background(), job.CreatedBy, job.ID)

	assert.Nil(t, preview)
	assert.ErrorIs(t, err, domain.ErrImportNotReady)
}

func TestImportService_Preview_WrongOwner(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	job.Status = domain.ImportStatusDone
	job.ParsedJSON = json.RawMessage(parsedReply)

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	preview, err := f.svc.Preview(context.Background(), uuid.New(), job.ID)

	assert.Nil(t, preview)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestImportService_GetByID_WrongOwner(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	result, err := f.svc.GetByID(context.Background(), uuid.New(), job.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestImportService_Apply_NewProposal(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	job.Status = domain.ImportStatusDone
	job.ParsedJSON = json.RawMessage(parsedReply)

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	expectEmptyCatalog(f)

	var created *domain.Proposal
	f.proposalRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Proposal")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Proposal)
		}).Return(nil)
	f.importRepo.On("LinkProposal", mock.Anything, job.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)

	result, err := f.svc.Apply(context.Background(), job.CreatedBy, service.ApplyImportInput{JobID: job.ID})

	assert.NoError(t, err)
	assert.Equal(t, created, result)
	assert.Equal(t, "Imported from proposta.pdf", result.Title)
	assert.Equal(t, domain.ProposalStatusDraft, result.Status)
	assert.Equal(t, "Pintura completa da fachada", result.ScopeText)
	assert.Equal(t, "30 dias", result.PaymentTerms)

	var items []proposal.Item
	assert.NoError(t, json.Unmarshal(result.Items, &items))
	assert.Len(t, items, 1)
	assert.Equal(t, "servicos", items[0].Category)
	assert.Equal(t, "m2", items[0].Unit)
	assert.Equal(t, 5400.0, items[0].Total)
}

func TestImportService_Apply_ExistingProposalKeepsUnextractedFields(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	job.Status = domain.ImportStatusDone
	job.ParsedJSON = json.RawMessage(parsedReply)

	existing := &domain.Proposal{
		ID:            uuid.New(),
		Title:         "Reforma ACME",
		Status:        domain.ProposalStatusDraft,
		WarrantyTerms: "12 meses",
		Notes:         "cliente antigo",
		Items:         json.RawMessage(`[{"category":"materiais","description":"cimento","unit":"un","quantity":50,"unit_price":35,"total":1750}]`),
	}

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	expectEmptyCatalog(f)
	f.proposalRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	f.proposalRepo.On("Update", mock.Anything, existing).Return(nil)
	f.importRepo.On("LinkProposal", mock.Anything, job.ID, existing.ID).Return(nil)

	result, err := f.svc.Apply(context.Background(), job.CreatedBy, service.ApplyImportInput{
		JobID:      job.ID,
		ProposalID: &existing.ID,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Reforma ACME", result.Title)
	// Fields the import extracted are overwritten.
	assert.Equal(t, "Pintura completa da fachada", result.ScopeText)
	// Fields the import returned as null keep their value.
	assert.Equal(t, "12 meses", result.WarrantyTerms)
	assert.Equal(t, "cliente antigo", result.Notes)

	// Items are replaced wholesale.
	var items []proposal.Item
	assert.NoError(t, json.Unmarshal(result.Items, &items))
	assert.Len(t, items, 1)
	assert.Equal(t, "Pintura de fachada", items[0].Description)

	f.proposalRepo.AssertExpectations(t)
	f.importRepo.AssertExpectations(t)
}

func TestImportService_Apply_NotReady(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	job.Status = domain.ImportStatusExtracting

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	result, err := f.svc.Apply(context.Background(), job.CreatedBy, service.ApplyImportInput{JobID: job.ID})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrImportNotReady)
}

func TestImportService_Apply_WrongOwner(t *testing.T) {
	f := newImportFixture()
	job := queuedJob()
	job.Status = domain.ImportStatusDone
	job.ParsedJSON = json.RawMessage(parsedReply)

	f.importRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)

	result, err := f.svc.Apply(context.Background(), uuid.New(), service.ApplyImportInput{JobID: job.ID})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	// No proposal may be created or linked on behalf of the job's owner.
	f.proposalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.importRepo.AssertNotCalled(t, "LinkProposal", mock.Anything, mock.Anything, mock.Anything)
}
