// Package importer parses external input (pasted text, PDF statements) into
// validated transactions via the Gemini API.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

// maxExtractChars bounds extracted PDF text for Gemini context limits.
const maxExtractChars = 50000

// Service implements the ImportService interface
type Service struct {
	gemini interfaces.GeminiClient
	logger *common.Logger
}

// NewService creates a new import service
func NewService(gemini interfaces.GeminiClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		gemini: gemini,
		logger: logger,
	}
}

// ImportText parses free-form text into transactions. The Gemini response is
// treated as untrusted: every candidate record goes through validation, and
// failures are reported per record rather than aborting the import.
func (s *Service) ImportText(ctx context.Context, userID, text string) (*models.ImportResult, error) {
	result, err := s.parseText(ctx, userID, text)
	if err != nil {
		return nil, err
	}
	result.Source = "text"
	return result, nil
}

// ImportDocument extracts text from a PDF and parses it into transactions.
func (s *Service) ImportDocument(ctx context.Context, userID string, pdfData []byte) (*models.ImportResult, error) {
	text, err := extractPDFText(pdfData)
	if err != nil {
		return nil, fmt.Errorf("failed to extract PDF text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	s.logger.Debug().
		Str("user", userID).
		Int("chars", len(text)).
		Msg("Extracted PDF text for import")

	result, err := s.parseText(ctx, userID, text)
	if err != nil {
		return nil, err
	}
	result.Source = "document"
	return result, nil
}

func (s *Service) parseText(ctx context.Context, userID, text string) (*models.ImportResult, error) {
	if s.gemini == nil {
		return nil, fmt.Errorf("import requires a configured Gemini client")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("import text is empty")
	}

	prompt := buildImportPrompt(text)
	response, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse import text: %w", err)
	}

	candidates, err := parseCandidates(response)
	if err != nil {
		return nil, err
	}

	transactions, rejected := validateCandidates(candidates)

	s.logger.Info().
		Str("user", userID).
		Int("accepted", len(transactions)).
		Int("rejected", len(rejected)).
		Msg("Import parse complete")

	return &models.ImportResult{
		Transactions: transactions,
		Rejected:     rejected,
	}, nil
}

// buildImportPrompt creates the extraction prompt for Gemini
func buildImportPrompt(text string) string {
	return fmt.Sprintf(`Extract stock trade transactions from the following text.

Return ONLY a JSON array, no prose. Each element:
{
  "date": "YYYY-MM-DD",
  "type": "BUY" or "SELL",
  "symbol": "ticker symbol",
  "name": "company name if present, else empty",
  "shares": number,
  "price": number (per-share price),
  "account": "account name if present, else empty",
  "exchange": "exchange code if present, else empty",
  "currency": "currency code if present, else empty"
}

Rules:
- Include every trade you can identify, even partial ones.
- Do not invent values: leave optional fields empty when the text does not state them.
- If no trades are present, return [].

Text:
%s`, text)
}

// extractPDFText extracts plain text from a PDF document.
func extractPDFText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	totalPages := r.NumPage()

	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() > maxExtractChars {
			break
		}
	}

	result := sb.String()
	if len(result) > maxExtractChars {
		result = result[:maxExtractChars]
	}

	return result, nil
}

// Ensure Service implements ImportService
var _ interfaces.ImportService = (*Service)(nil)
