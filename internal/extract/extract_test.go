package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Recruiter: Tell me about your last project.</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Candidate: I built a </w:t></w:r><w:r><w:t>payments API in Go.</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go</w:t><w:br/><w:t>SQL</w:t></w:r></w:p>
</w:body>
</w:document>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDOCX(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": documentRels,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	c := layout.NewPDFCanvas(layout.PDFOptions{})
	for _, text := range pages {
		c.AddPage()
		c.Text(20, 30, text, 11, layout.Regular, layout.ColorTextDark)
	}
	var buf bytes.Buffer
	require.NoError(t, c.Output(&buf))
	return buf.Bytes()
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected *AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestUploadPolicy(t *testing.T) {
	p := UploadPolicy{AllowedExtensions: []string{".pdf", ".docx"}, MaxFileSize: 1024}

	tests := []struct {
		name     string
		file     string
		size     int64
		wantCode string
	}{
		{name: "pdf within limit", file: "interview.pdf", size: 1024},
		{name: "upper case extension", file: "Interview.DOCX", size: 10},
		{name: "text not allowed", file: "notes.txt", size: 10, wantCode: errors.ErrCodeUnsupportedFileType},
		{name: "no extension", file: "transcript", size: 10, wantCode: errors.ErrCodeUnsupportedFileType},
		{name: "too large", file: "interview.pdf", size: 1025, wantCode: errors.ErrCodeFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(tt.file, tt.size)
			assert.Equal(t, tt.wantCode == "", p.IsAcceptable(tt.file, tt.size))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestPolicyFromConfig(t *testing.T) {
	p := PolicyFromConfig(config.AppConfig{})
	assert.Equal(t, DefaultPolicy(), p)

	p = PolicyFromConfig(config.AppConfig{AllowedExtensions: []string{".txt"}, MaxFileSize: 42})
	assert.Equal(t, []string{".txt"}, p.AllowedExtensions)
	assert.Equal(t, int64(42), p.MaxFileSize)
}

func TestExtractText(t *testing.T) {
	e := NewExtractor(DefaultPolicy(), nil)

	doc, err := e.ExtractBytes(context.Background(), "uploads/call.txt",
		[]byte("Recruiter: Hello\r\n\r\n\r\nCandidate: Hi   \n"))
	require.NoError(t, err)

	assert.Equal(t, "call.txt", doc.FileName)
	assert.Equal(t, "txt", doc.Format)
	assert.Equal(t, "Recruiter: Hello\n\nCandidate: Hi", doc.Text)
	require.NotNil(t, doc.FileSize)
	assert.Nil(t, doc.PageCount)
}

func TestExtractDOCX(t *testing.T) {
	e := NewExtractor(DefaultPolicy(), nil)

	doc, err := e.ExtractBytes(context.Background(), "interview.docx", buildDOCX(t))
	require.NoError(t, err)

	assert.Equal(t, "docx", doc.Format)
	assert.Equal(t,
		"Recruiter: Tell me about your last project.\nCandidate: I built a payments API in Go.\nSkills:\tGo\nSQL",
		doc.Text)
}

func TestExtractPDF(t *testing.T) {
	e := NewExtractor(DefaultPolicy(), nil)

	doc, err := e.ExtractBytes(context.Background(), "interview.pdf",
		buildPDF(t, "Recruiter asks about distributed systems", "Candidate describes consensus"))
	require.NoError(t, err)

	require.NotNil(t, doc.PageCount)
	assert.Equal(t, 2, *doc.PageCount)
	assert.Contains(t, doc.Text, "distributed")
	assert.Contains(t, doc.Text, "consensus")
}

func TestExtractFailures(t *testing.T) {
	e := NewExtractor(DefaultPolicy(), nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		file     string
		data     []byte
		wantCode string
	}{
		{name: "binary posing as text", file: "a.txt", data: []byte("%PDF-1.4 binary"), wantCode: errors.ErrCodeExtractionFailed},
		{name: "empty text", file: "a.txt", data: []byte(" \n\t "), wantCode: errors.ErrCodeExtractionFailed},
		{name: "corrupt pdf", file: "a.pdf", data: []byte("not a pdf at all"), wantCode: errors.ErrCodeExtractionFailed},
		{name: "corrupt docx", file: "a.docx", data: []byte("not a zip"), wantCode: errors.ErrCodeExtractionFailed},
		{name: "image upload", file: "a.png", data: []byte{0x89, 'P', 'N', 'G'}, wantCode: errors.ErrCodeUnsupportedFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ExtractBytes(ctx, tt.file, tt.data)
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestExtractTooLarge(t *testing.T) {
	e := NewExtractor(UploadPolicy{AllowedExtensions: []string{".txt"}, MaxFileSize: 8}, nil)
	_, err := e.ExtractBytes(context.Background(), "a.txt", []byte("more than eight bytes"))
	assertCode(t, err, errors.ErrCodeFileTooLarge)
}

func TestExtractFromPath(t *testing.T) {
	e := NewExtractor(DefaultPolicy(), nil)
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("Senior Go engineer"), 0600))

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer", doc.Text)

	_, err = e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assertCode(t, err, errors.ErrCodeFileNotFound)
}

func TestExtractChecksPolicyBeforeReading(t *testing.T) {
	e := NewExtractor(UploadPolicy{AllowedExtensions: []string{".txt"}, MaxFileSize: 1024}, nil)

	// sparse file: its size is known from stat without touching the data
	path := filepath.Join(t.TempDir(), "huge.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(512<<20))
	require.NoError(t, f.Close())

	_, err = e.Extract(context.Background(), path)
	assertCode(t, err, errors.ErrCodeFileTooLarge)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(512<<20), appErr.Context["size"])

	exe := filepath.Join(t.TempDir(), "tool.exe")
	require.NoError(t, os.WriteFile(exe, []byte("MZ"), 0600))
	_, err = e.Extract(context.Background(), exe)
	assertCode(t, err, errors.ErrCodeUnsupportedFileType)
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(DefaultPolicy(), nil).ExtractBytes(ctx, "a.txt", []byte("hello"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsBinaryData(t *testing.T) {
	assert.False(t, IsBinaryData(""))
	assert.False(t, IsBinaryData("plain transcript\nwith lines\tand tabs"))
	assert.True(t, IsBinaryData("%PDF-1.7"))
	assert.True(t, IsBinaryData("PK\x03\x04"))
	assert.True(t, IsBinaryData(strings.Repeat("\x00\x01", 50)))
}

func BenchmarkWordXMLText(b *testing.B) {
	for b.Loop() {
		_, _ = wordXMLText(documentXML)
	}
}
