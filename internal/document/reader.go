// Package document decodes uploaded RFP files into plain text.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrEmptyDocument        = errors.New("no text content found in document")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
)

var DefaultExtensions = []string{".pdf", ".doc", ".docx", ".txt"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Reader struct {
	allowed map[string]struct{}
}

func NewReader(extensions []string) *Reader {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return &Reader{allowed: allowed}
}

func (r *Reader) Allowed(fileName string) bool {
	_, ok := r.allowed[extension(fileName)]
	return ok
}

func (r *Reader) Extensions() []string {
	result := make([]string, 0, len(r.allowed))
	for _, ext := range DefaultExtensions {
		if _, ok := r.allowed[ext]; ok {
			result = append(result, ext)
		}
	}
	for ext := range r.allowed {
		if !contains(result, ext) {
			result = append(result, ext)
		}
	}
	return result
}

// ExtractText returns the text of an uploaded file. PDFs are parsed page by
// page; everything else is read as UTF-8, falling back to Latin-1.
func (r *Reader) ExtractText(fileName string, data []byte) (string, error) {
	ext := extension(fileName)
	if _, ok := r.allowed[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}

	var (
		text string
		err  error
	)
	if ext == ".pdf" {
		text, err = pdfText(data)
		if err != nil {
			return "", err
		}
	} else {
		text = plainText(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func plainText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("?")))
	}
	return string(decoded)
}

func pdfText(data []byte) (text string, err error) {
	// the pdf package panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func extension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
