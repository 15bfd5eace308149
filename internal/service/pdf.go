package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// MaxPDFSize is the largest upload accepted for text extraction
const MaxPDFSize = 10 * 1024 * 1024

var (
	ErrNotPDF      = errors.New("not a PDF file")
	ErrPDFTooLarge = errors.New("PDF exceeds size limit")
)

// ExtractPDFText returns the plain text of every page, pages separated by a
// blank line. Pages that fail to decode are skipped.
func ExtractPDFText(data []byte) (string, error) {
	if len(data) > MaxPDFSize {
		return "", ErrPDFTooLarge
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", ErrNotPDF
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Int("page", i).Err(err).Msg("Failed to extract text from PDF page")
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	return strings.TrimSpace(sb.String()), nil
}
