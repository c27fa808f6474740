package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

type TextExtractor interface {
	ExtractText(data []byte) (string, error)
	ExtractTextFromFile(filePath string) (string, error)
}

type pdfTextExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &pdfTextExtractor{}
}

// ExtractTextFromFile implements TextExtractor.
func (p *pdfTextExtractor) ExtractTextFromFile(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return p.ExtractText(data)
}

// ExtractText implements TextExtractor. Pages are separated by a blank line.
// A single attempt is made; the PDF
// library panics on some malformed inputs, which is reported as an
// extraction failure.
func (p *pdfTextExtractor) ExtractText(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", fmt.Errorf("%w: missing PDF header", ErrUnsupportedFormat)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrExtractionFailure, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	var pages []string
	totalPage := r.NumPage()
	failedPages := 0
	var lastErr error

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Keep going; one bad page should not lose the rest.
			failedPages++
			lastErr = err
			continue
		}

		if cleaned := CleanText(pageText); cleaned != "" {
			pages = append(pages, cleaned)
		}
	}

	if totalPage > 0 && failedPages == totalPage {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailure, lastErr)
	}

	return strings.Join(pages, "\n\n"), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
