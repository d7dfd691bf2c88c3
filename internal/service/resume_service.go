package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"masteryloop_backend/internal/util"

	"github.com/ledongthuc/pdf"
)

// PDFResumeReader extracts text from uploaded resumes. PDFs go through a
// proper text extractor; plain text passes through as-is.
type PDFResumeReader struct {
	MaxChars int // cap on extracted text fed to the generator
}

func NewPDFResumeReader() *PDFResumeReader {
	return &PDFResumeReader{MaxChars: 12000}
}

func (r *PDFResumeReader) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var text string
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".pdf") || bytes.HasPrefix(data, []byte("%PDF")):
		extracted, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", util.ErrResumeUnreadable, err)
		}
		text = extracted
	case utf8.Valid(data):
		text = string(data)
	default:
		return "", util.ErrResumeUnreadable
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", util.ErrResumeUnreadable
	}
	if r.MaxChars > 0 && len(text) > r.MaxChars {
		text = text[:r.MaxChars]
	}
	return text, nil
}

// extractPDF recovers from parser panics: the pdf package panics on some
// malformed files instead of returning an error.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
