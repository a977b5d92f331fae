// Package extract pulls plain text out of uploaded interview transcripts and
// job descriptions.
package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// binarySampleSize is the number of bytes inspected for binary detection
	binarySampleSize = 1000
	// binaryThreshold is the share of control characters that marks data as binary
	binaryThreshold = 0.3
)

// Extractor converts PDF, DOCX and text files into an ExtractedDocument
type Extractor struct {
	policy UploadPolicy
	logger *errors.Logger
}

// NewExtractor creates an extractor enforcing policy
func NewExtractor(policy UploadPolicy, logger *errors.Logger) *Extractor {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Extractor{policy: policy, logger: logger}
}

// Policy returns the upload policy the extractor enforces
func (e *Extractor) Policy() UploadPolicy {
	return e.policy
}

// Extract reads the file at path and extracts its text. The upload policy is
// checked against the file size before anything is read.
func (e *Extractor) Extract(ctx context.Context, path string) (*types.ExtractedDocument, error) {
	if err := utils.ValidateInputFile(path); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "cannot read input document", err).
			WithContext("file", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot read input document", err).
			WithContext("file", path)
	}
	if err := e.policy.Check(path, info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot read input document", err).
			WithContext("file", path)
	}
	return e.ExtractBytes(ctx, path, data)
}

// ExtractBytes extracts text from an in-memory file. The name selects the format.
func (e *Extractor) ExtractBytes(ctx context.Context, name string, data []byte) (*types.ExtractedDocument, error) {
	ctx, span := otel.Tracer("sentivox").Start(ctx, "extract.document")
	defer span.End()

	ext := utils.GetFileExtension(name)
	size := int64(len(data))
	span.SetAttributes(
		attribute.String("extract.format", ext),
		attribute.Int64("extract.size", size),
	)

	if err := e.policy.Check(name, size); err != nil {
		span.SetStatus(codes.Error, "rejected by upload policy")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &types.ExtractedDocument{
		FileName: filepath.Base(name),
		Format:   strings.TrimPrefix(ext, "."),
		FileSize: &size,
	}

	var err error
	switch ext {
	case ".pdf":
		var pages int
		doc.Text, pages, err = extractPDF(data)
		doc.PageCount = &pages
	case ".docx":
		doc.Text, err = extractDOCX(data)
	case ".txt", ".md":
		doc.Text, err = extractPlain(data)
	default:
		err = fmt.Errorf("no extractor for %s", ext)
	}
	if err == nil && strings.TrimSpace(doc.Text) == "" {
		err = fmt.Errorf("document contains no extractable text")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		appErr := errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("failed to extract text from %s", doc.FileName), err).
			WithContext("format", doc.Format)
		e.logger.LogError(appErr, "Extraction failed")
		return nil, appErr
	}

	e.logger.Debug("Document extracted",
		"file", doc.FileName,
		"format", doc.Format,
		"size", utils.FormatFileSize(size),
		"characters", len(doc.Text))
	return doc, nil
}

// extractPDF returns the plain text layer and the page count. The PDF reader
// panics on some malformed files, so panics become errors.
func extractPDF(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	pages = r.NumPage()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", pages, fmt.Errorf("failed to read PDF text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", pages, fmt.Errorf("failed to read PDF text: %w", err)
	}
	return normalizeWhitespace(buf.String()), pages, nil
}

// extractDOCX reads the main document part and flattens its runs into text
func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer func() { _ = r.Close() }()

	return wordXMLText(r.Editable().GetContent())
}

// wordXMLText keeps text runs, turning paragraphs and breaks into newlines
func wordXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("invalid document XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return normalizeWhitespace(b.String()), nil
}

func extractPlain(data []byte) (string, error) {
	text := string(data)
	if IsBinaryData(text) {
		return "", fmt.Errorf("file content is binary, not text")
	}
	return normalizeWhitespace(text), nil
}

// IsBinaryData reports whether content looks like a PDF, a ZIP container or
// otherwise mostly control characters
func IsBinaryData(content string) bool {
	if len(content) == 0 {
		return false
	}
	if strings.HasPrefix(content, "%PDF-") || strings.HasPrefix(content, "PK") {
		return true
	}

	sampleSize := min(binarySampleSize, len(content))
	nonPrintable := 0
	for i := range sampleSize {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(sampleSize) > binaryThreshold
}

// normalizeWhitespace unifies line endings, trims trailing spaces and collapses
// runs of blank lines
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
