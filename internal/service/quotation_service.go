package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/rfp-quotation/internal/catalog"
	"github.com/nurpe/rfp-quotation/internal/config"
	"github.com/nurpe/rfp-quotation/internal/model"
	"github.com/nurpe/rfp-quotation/internal/scrape"
)

type DocumentReader interface {
	Allowed(fileName string) bool
	Extensions() []string
	ExtractText(fileName string, data []byte) (string, error)
}

type PDFGenerator interface {
	Quotation(q model.Quotation) ([]byte, error)
	Text(title, body string) ([]byte, error)
}

type ExcelGenerator interface {
	Quotation(q model.Quotation) ([]byte, error)
}

type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*scrape.Page, error)
}

type Dependencies struct {
	Pipeline *Pipeline
	Store    *ResultStore
	Catalog  *catalog.Catalog
	Reader   DocumentReader
	PDF      PDFGenerator
	Excel    ExcelGenerator
	Scraper  PageFetcher
}

type QuotationService struct {
	pipeline       *Pipeline
	store          *ResultStore
	catalog        *catalog.Catalog
	reader         DocumentReader
	pdf            PDFGenerator
	excel          ExcelGenerator
	scraper        PageFetcher
	worker         *Worker
	maxUploadBytes int64
	log            zerolog.Logger
}

type SubmitInput struct {
	FileName string
	Content  []byte
}

type SubmitResult struct {
	RequestID uuid.UUID
	FileName  string
	Status    model.RunStatus
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewQuotationService(deps Dependencies, cfg *config.Config, log zerolog.Logger) *QuotationService {
	s := &QuotationService{
		pipeline:       deps.Pipeline,
		store:          deps.Store,
		catalog:        deps.Catalog,
		reader:         deps.Reader,
		pdf:            deps.PDF,
		excel:          deps.Excel,
		scraper:        deps.Scraper,
		maxUploadBytes: cfg.Upload.MaxBytes,
		log:            log,
	}
	s.worker = NewWorker(s.process, cfg.Worker.Concurrency, cfg.Worker.QueueSize, log)
	return s
}

func (s *QuotationService) Start(ctx context.Context) {
	s.worker.Start(ctx)
}

// Stop drains the worker; documents that never started are marked failed.
func (s *QuotationService) Stop() {
	for _, job := range s.worker.Stop() {
		_ = s.store.Finish(job.RequestID, failed(ErrWorkerStopped))
	}
}

// Submit registers an upload as processing and queues it.
func (s *QuotationService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: no file provided", ErrInvalidInput)
	}
	if !s.reader.Allowed(fileName) {
		return nil, fmt.Errorf("%w: allowed %s", ErrUnsupportedFile, strings.Join(s.reader.Extensions(), ", "))
	}
	if s.maxUploadBytes > 0 && int64(len(input.Content)) > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: max size %d bytes", ErrFileTooLarge, s.maxUploadBytes)
	}

	id := uuid.New()
	record := s.store.Start(id, fileName)

	if err := s.worker.Enqueue(Job{RequestID: id, FileName: fileName, Content: input.Content}); err != nil {
		_ = s.store.Finish(id, failed(err))
		return nil, err
	}

	s.log.Info().Str("request_id", id.String()).Str("file", fileName).Int("bytes", len(input.Content)).Msg("rfp queued")
	return &SubmitResult{
		RequestID: id,
		FileName:  fileName,
		Status:    record.Status,
	}, nil
}

func (s *QuotationService) process(ctx context.Context, job Job) {
	log := s.log.With().Str("request_id", job.RequestID.String()).Logger()

	var result model.RunResult
	text, err := s.reader.ExtractText(job.FileName, job.Content)
	if err != nil {
		log.Warn().Err(err).Msg("document decoding failed")
		result = failed(err)
	} else {
		result = s.pipeline.Run(ctx, text)
	}

	if err := s.store.Finish(job.RequestID, result); err != nil {
		log.Error().Err(err).Msg("failed to store result")
		return
	}
	log.Info().Str("status", string(result.Status)).Msg("rfp processed")
}

// MaxUploadBytes is the accepted upload size; zero means unlimited.
func (s *QuotationService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// ProcessText runs the pipeline synchronously over already decoded text.
func (s *QuotationService) ProcessText(ctx context.Context, text string) (model.RunResult, error) {
	if strings.TrimSpace(text) == "" {
		return model.RunResult{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	return s.pipeline.Run(ctx, text), nil
}

// GetResult returns a finished, successful record. Processing records give
// ErrNotReady and failed ones ErrRunFailed with the run message.
func (s *QuotationService) GetResult(id uuid.UUID) (*Record, error) {
	record, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	switch record.Status {
	case model.RunStatusProcessing:
		return nil, ErrNotReady
	case model.RunStatusError:
		message := "unknown error"
		if record.Result != nil && record.Result.Message != "" {
			message = record.Result.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrRunFailed, message)
	}
	if record.Result == nil || record.Result.Quotation == nil {
		return nil, fmt.Errorf("%w: result missing", ErrRunFailed)
	}
	return &record, nil
}

func (s *QuotationService) ExportPDF(id uuid.UUID) (*ExportResult, error) {
	record, err := s.GetResult(id)
	if err != nil {
		return nil, err
	}
	quotation := *record.Result.Quotation
	content, err := s.pdf.Quotation(quotation)
	if err != nil {
		return nil, fmt.Errorf("render quotation pdf: %w", err)
	}
	return &ExportResult{FileName: exportFileName(quotation, "pdf"), Content: content}, nil
}

func (s *QuotationService) ExportExcel(id uuid.UUID) (*ExportResult, error) {
	record, err := s.GetResult(id)
	if err != nil {
		return nil, err
	}
	quotation := *record.Result.Quotation
	content, err := s.excel.Quotation(quotation)
	if err != nil {
		return nil, fmt.Errorf("render quotation workbook: %w", err)
	}
	return &ExportResult{FileName: exportFileName(quotation, "xlsx"), Content: content}, nil
}

func (s *QuotationService) Catalog() []model.CatalogProduct {
	return s.catalog.Products()
}

func (s *QuotationService) Scrape(ctx context.Context, rawURL string) (*scrape.Page, error) {
	page, err := s.scraper.Fetch(ctx, rawURL)
	if err != nil {
		if errors.Is(err, scrape.ErrInvalidURL) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	return page, nil
}

func (s *QuotationService) RenderTextPDF(title, content string, at time.Time) (*ExportResult, error) {
	if strings.TrimSpace(title) == "" {
		title = scrape.DefaultTitle
	}
	data, err := s.pdf.Text(title, content)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("scraped-%d.pdf", at.Unix()),
		Content:  data,
	}, nil
}

func exportFileName(q model.Quotation, ext string) string {
	company := sanitizeFileName(q.CompanyInfo.Name)
	if company == "" {
		return fmt.Sprintf("quotation-%s.%s", sanitizeFileName(q.QuotationID), ext)
	}
	return fmt.Sprintf("quotation-%s-%s.%s", sanitizeFileName(q.QuotationID), company, ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
