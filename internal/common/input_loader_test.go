package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonInput = `{
  "metadata": {"fileName": "call.mp4", "candidateName": "Sam Lee"},
  "scores": {"jdMatchScore": 82, "candidateEngagement": 74, "recruiterSentiment": 8, "flowContinuityScore": 65},
  "flow": {"issues": [{"text": "Abrupt topic change", "severity": "high"}]}
}`

const yamlInput = `
metadata:
  fileName: call.mp4
scores:
  jdMatchScore: 82
  candidateEngagement: 74
  recruiterSentiment: 8
  flowContinuityScore: 65
jdRelevance:
  exchanges:
    - question: Describe a system you scaled
      answer: Sharded the ledger
      score: 88
`

func TestDecodeJSONAndYAML(t *testing.T) {
	l := NewInputLoader(nil)

	in, err := l.Decode("input.json", []byte(jsonInput))
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", in.Metadata.CandidateName)
	assert.Equal(t, 82.0, in.Scores.JDMatchScore)
	require.NotNil(t, in.Flow)
	assert.Equal(t, types.SeverityHigh, in.Flow.Issues[0].Severity)
	assert.Nil(t, in.Sentiment)

	in, err = l.Decode("input.YML", []byte(yamlInput))
	require.NoError(t, err)
	assert.Equal(t, 8.0, in.Scores.RecruiterSentiment)
	require.True(t, in.HasJDRelevance())
	assert.Equal(t, 88.0, in.JDRelevance.Exchanges[0].Score)
}

func TestDecodeRejects(t *testing.T) {
	l := NewInputLoader(nil)

	tests := []struct {
		name     string
		file     string
		data     string
		wantCode string
	}{
		{"broken json", "a.json", `{"scores": `, errors.ErrCodeInvalidFormat},
		{"broken yaml", "a.yaml", "scores: [1, 2", errors.ErrCodeInvalidFormat},
		{"score out of range", "a.json", `{"scores": {"jdMatchScore": 120}}`, errors.ErrCodeInvalidInput},
		{"sentiment on percent scale", "a.json", `{"scores": {"recruiterSentiment": 80}}`, errors.ErrCodeInvalidInput},
		{"unknown severity", "a.json", `{"flow": {"issues": [{"text": "x", "severity": "critical"}]}}`, errors.ErrCodeInvalidInput},
		{"missing severity", "a.json", `{"flow": {"issues": [{"text": "x"}]}}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Decode(tt.file, []byte(tt.data))
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "call.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonInput), 0600))

	in, err := NewInputLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "call.mp4", in.Metadata.FileName)

	_, err = NewInputLoader(nil).Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestIsInputFile(t *testing.T) {
	assert.True(t, IsInputFile("a.json"))
	assert.True(t, IsInputFile("dir/a.YAML"))
	assert.True(t, IsInputFile("a.yml"))
	assert.False(t, IsInputFile("a.pdf"))
	assert.False(t, IsInputFile("a.json.tmp"))
}
