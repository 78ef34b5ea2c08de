package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/rfp-quotation/internal/catalog"
	"github.com/nurpe/rfp-quotation/internal/config"
	"github.com/nurpe/rfp-quotation/internal/document"
	"github.com/nurpe/rfp-quotation/internal/model"
	"github.com/nurpe/rfp-quotation/internal/scrape"
)

type stubPDF struct{}

func (stubPDF) Quotation(q model.Quotation) ([]byte, error) { return []byte("%PDF " + q.QuotationID), nil }
func (stubPDF) Text(title, body string) ([]byte, error)     { return []byte("%PDF " + title), nil }

type stubExcel struct{}

func (stubExcel) Quotation(q model.Quotation) ([]byte, error) { return []byte("xlsx " + q.QuotationID), nil }

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, rawURL string) (*scrape.Page, error) {
	if rawURL == "bad" {
		return nil, scrape.ErrInvalidURL
	}
	return &scrape.Page{URL: rawURL, Title: "T"}, nil
}

func newTestService(t *testing.T, maxBytes int64) *QuotationService {
	t.Helper()
	cfg := &config.Config{
		Upload: config.UploadConfig{MaxBytes: maxBytes},
		Worker: config.WorkerConfig{Concurrency: 2, QueueSize: 8},
	}
	svc := NewQuotationService(Dependencies{
		Pipeline: newTestPipeline(),
		Store:    NewResultStore(),
		Catalog:  catalog.Builtin(),
		Reader:   document.NewReader(nil),
		PDF:      stubPDF{},
		Excel:    stubExcel{},
		Scraper:  stubFetcher{},
	}, cfg, zerolog.Nop())
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func waitForResult(t *testing.T, svc *QuotationService, id uuid.UUID) (*Record, error) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		record, err := svc.GetResult(id)
		if !errors.Is(err, ErrNotReady) {
			return record, err
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("request %s still processing", id)
	return nil, nil
}

func TestSubmitAndRetrieveQuotation(t *testing.T) {
	svc := newTestService(t, 1<<20)
	submitted, err := svc.Submit(context.Background(), SubmitInput{
		FileName: "tender.txt",
		Content:  []byte("COMPANY: Lumen City\n40 LED Street Light 50W IP65\n"),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.Status != model.RunStatusProcessing {
		t.Fatalf("status = %s", submitted.Status)
	}

	record, err := waitForResult(t, svc, submitted.RequestID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	q := record.Result.Quotation
	if len(q.LineItems) != 1 || q.LineItems[0].ProductID != "LED-STREET-50W" {
		t.Fatalf("lines = %+v", q.LineItems)
	}

	pdfExport, err := svc.ExportPDF(submitted.RequestID)
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if pdfExport.FileName != "quotation-"+sanitizeFileName(q.QuotationID)+"-Lumen-City.pdf" {
		t.Fatalf("file name = %s", pdfExport.FileName)
	}
	xlsx, err := svc.ExportExcel(submitted.RequestID)
	if err != nil {
		t.Fatalf("ExportExcel: %v", err)
	}
	if string(xlsx.Content) != "xlsx "+q.QuotationID {
		t.Fatalf("xlsx content = %q", xlsx.Content)
	}
}

func TestSubmitDecodingFailureIsTracked(t *testing.T) {
	svc := newTestService(t, 1<<20)
	submitted, err := svc.Submit(context.Background(), SubmitInput{FileName: "empty.txt", Content: []byte("   ")})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_, err = waitForResult(t, svc, submitted.RequestID)
	if !errors.Is(err, ErrRunFailed) {
		t.Fatalf("err = %v, want ErrRunFailed", err)
	}
	if _, err := svc.ExportPDF(submitted.RequestID); !errors.Is(err, ErrRunFailed) {
		t.Fatalf("export err = %v, want ErrRunFailed", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(t, 8)
	cases := []struct {
		input SubmitInput
		want  error
	}{
		{SubmitInput{FileName: ""}, ErrInvalidInput},
		{SubmitInput{FileName: "rfp.exe", Content: []byte("x")}, ErrUnsupportedFile},
		{SubmitInput{FileName: "rfp.txt", Content: []byte("123456789")}, ErrFileTooLarge},
	}
	for _, tc := range cases {
		if _, err := svc.Submit(context.Background(), tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("Submit(%q) err = %v, want %v", tc.input.FileName, err, tc.want)
		}
	}
}

func TestGetResultUnknown(t *testing.T) {
	svc := newTestService(t, 0)
	if _, err := svc.GetResult(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestProcessText(t *testing.T) {
	svc := newTestService(t, 0)
	if _, err := svc.ProcessText(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	result, err := svc.ProcessText(context.Background(), "nothing to quote")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if !result.Succeeded() {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}
	if len(result.ExtractedData.Items) != 1 || result.ExtractedData.Items[0].ItemName != "Electrical Cable" {
		t.Fatalf("items = %+v", result.ExtractedData.Items)
	}
}

func TestScrapeMapsInvalidURL(t *testing.T) {
	svc := newTestService(t, 0)
	if _, err := svc.Scrape(context.Background(), "bad"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	page, err := svc.Scrape(context.Background(), "https://example.com")
	if err != nil || page.Title != "T" {
		t.Fatalf("page = %+v err = %v", page, err)
	}
}

func TestRenderTextPDF(t *testing.T) {
	svc := newTestService(t, 0)
	at := time.Unix(1700000000, 0)
	out, err := svc.RenderTextPDF("", "body", at)
	if err != nil {
		t.Fatalf("RenderTextPDF: %v", err)
	}
	if out.FileName != "scraped-1700000000.pdf" || string(out.Content) != "%PDF "+scrape.DefaultTitle {
		t.Fatalf("out = %s %q", out.FileName, out.Content)
	}
}

func TestCatalogListing(t *testing.T) {
	svc := newTestService(t, 0)
	if got := len(svc.Catalog()); got != 4 {
		t.Fatalf("len(catalog) = %d, want 4", got)
	}
}
