package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoPDFText = errors.New("no text content found in PDF")

type PDFParserService interface {
	ExtractText(filePath string) (*PDFContent, error)
}

// PDFContent is the cleaned text of a CV or reference document.
type PDFContent struct {
	Text         string
	PageCount    int
	SkippedPages int
	FilePath     string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText returns the plain text of every readable page. Pages that
// fail to decode are skipped and counted; scanned documents with no text
// layer yield ErrNoPDFText.
func (p *pdfParserService) ExtractText(filePath string) (*PDFContent, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	f, r, err := pdf.Open(filePath)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	content := &PDFContent{
		PageCount: r.NumPage(),
		FilePath:  filePath,
	}

	pages := make([]string, 0, content.PageCount)
	for pageIndex := 1; pageIndex <= content.PageCount; pageIndex++ {
		text, ok := pageText(r.Page(pageIndex))
		if !ok {
			content.SkippedPages++
			continue
		}
		if text = CleanText(text); text != "" {
			pages = append(pages, text)
		}
	}

	content.Text = strings.Join(pages, "\n\n")
	if content.Text == "" {
		return nil, ErrNoPDFText
	}

	return content, nil
}

// pageText extracts one page. The pdf reader panics on some malformed
// content streams, so a panic counts as an unreadable page.
func pageText(page pdf.Page) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()

	if page.V.IsNull() {
		return "", false
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return text, true
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := lines[:0]

	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
