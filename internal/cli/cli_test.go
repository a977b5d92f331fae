package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/ai"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisJSON = `{
  "metadata": {"fileName": "screen-call.mp4"},
  "scores": {"jdMatchScore": 58, "candidateEngagement": 45, "recruiterSentiment": 4, "flowContinuityScore": 52},
  "jobDescription": "Data engineer, Python and SQL",
  "technicalSkills": ["Python", "SQL"],
  "flow": {"issues": [{"text": "Long silence", "severity": "medium"}]}
}`

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.AI.APIKey = ""
	cfg.AI.Interview.APIKey = ""
	return cfg
}

func run(t *testing.T, ctx context.Context, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(WithDependencies(ctx, cfg, errors.Discard()))
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, context.Background(), testConfig(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sentivox version dev")
}

func TestMissingDependencies(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"recommend", "x.json"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "not found in context")
}

func TestRenderSingle(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "screen.json", analysisJSON)

	t.Run("default output next to input", func(t *testing.T) {
		_, stderr, err := run(t, context.Background(), testConfig(), "render", input, "--report-id", "r-1")
		require.NoError(t, err)
		assert.Contains(t, stderr, "id r-1")

		data, err := os.ReadFile(filepath.Join(dir, "screen-report.pdf"))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	})

	t.Run("stdout", func(t *testing.T) {
		out, stderr, err := run(t, context.Background(), testConfig(), "render", input, "-o", "-")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "%PDF"))
		assert.Empty(t, stderr)
	})

	t.Run("xlsx", func(t *testing.T) {
		target := filepath.Join(dir, "card.xlsx")
		_, _, err := run(t, context.Background(), testConfig(), "render", input, "--format", "xlsx", "-o", target)
		require.NoError(t, err)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("PK")))
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := run(t, context.Background(), testConfig(), "render", input, "--format", "docx")
		assert.ErrorContains(t, err, "unsupported report format")
	})

	t.Run("invalid input", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.json", `{"scores":{"jdMatchScore":101}}`)
		_, _, err := run(t, context.Background(), testConfig(), "render", bad)
		assert.Error(t, err)
	})
}

func TestRenderMany(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", analysisJSON)
	b := writeFile(t, dir, "b.yaml", "metadata:\n  fileName: b.wav\nscores:\n  jdMatchScore: 90\n  candidateEngagement: 80\n  recruiterSentiment: 9\n  flowContinuityScore: 85\n")
	out := filepath.Join(dir, "out")

	_, stderr, err := run(t, context.Background(), testConfig(), "render", a, b, "--out-dir", out, "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "a-report.pdf")
	assert.FileExists(t, filepath.Join(out, "a-report.pdf"))
	assert.FileExists(t, filepath.Join(out, "b-report.pdf"))

	broken := writeFile(t, dir, "c.json", "{")
	_, stderr, err = run(t, context.Background(), testConfig(), "render", a, broken, "--out-dir", out)
	assert.ErrorContains(t, err, "1 of 2 reports failed")
	assert.Contains(t, stderr, "FAILED "+broken)

	_, _, err = run(t, context.Background(), testConfig(), "render", a, b, "-o", "x.pdf")
	assert.ErrorContains(t, err, "--output takes a single input")
}

func TestRecommend(t *testing.T) {
	input := writeFile(t, t.TempDir(), "screen.json", analysisJSON)

	out, _, err := run(t, context.Background(), testConfig(), "recommend", input)
	require.NoError(t, err)

	var list types.RecommendationList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, "screen-call.mp4", list.FileName)
	assert.Equal(t, "caution", list.Verdict)
	assert.True(t, list.TechnicalRole)
	assert.LessOrEqual(t, len(list.Recommendations), 5)

	out, _, err = run(t, context.Background(), testConfig(), "recommend", input, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "#")

	_, _, err = run(t, context.Background(), testConfig(), "recommend", input, "--format", "html")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.txt", "Recruiter: Walk me through a pipeline you built.\nCandidate: An Airflow ETL.")

	out, _, err := run(t, context.Background(), testConfig(), "extract", input, "--format", "json")
	require.NoError(t, err)

	var doc types.ExtractedDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "txt", doc.Format)
	assert.Contains(t, doc.Text, "Airflow ETL")

	exe := writeFile(t, dir, "tool.exe", "MZ")
	_, _, err = run(t, context.Background(), testConfig(), "extract", exe)
	assert.ErrorContains(t, err, "unsupported file type")
}

type stubAnalyzer struct {
	last types.AnalyzeInterviewInput
}

func (s *stubAnalyzer) AnalyzeInterview(_ context.Context, in types.AnalyzeInterviewInput) (*types.ReportInput, *ai.TokenUsage, error) {
	s.last = in
	return &types.ReportInput{
		Metadata: types.InterviewMetadata{FileName: in.FileName},
		Scores:   types.Scores{JDMatchScore: 71, CandidateEngagement: 66, RecruiterSentiment: 7, FlowContinuityScore: 80},
	}, &ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
}

func (s *stubAnalyzer) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "stub", Available: true}
}

func (s *stubAnalyzer) Close() error { return nil }

func TestAnalyze(t *testing.T) {
	stub := &stubAnalyzer{}
	orig := newAIService
	newAIService = func(*config.Config, *errors.Logger) (*ai.Service, error) {
		return ai.NewServiceWithAnalyzer(stub, nil), nil
	}
	t.Cleanup(func() { newAIService = orig })

	dir := t.TempDir()
	transcript := writeFile(t, dir, "call.txt", "Recruiter: Why this role?\nCandidate: I like distributed systems.")
	jd := writeFile(t, dir, "jd.txt", "Senior Go engineer")
	pdf := filepath.Join(dir, "call.pdf")

	out, _, err := run(t, context.Background(), testConfig(), "analyze", transcript, "--jd", jd, "--pdf", pdf)
	require.NoError(t, err)

	var got types.ReportInput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "call.txt", got.Metadata.FileName)
	assert.Equal(t, "Senior Go engineer", stub.last.JobDescription)
	assert.Contains(t, stub.last.Transcript, "distributed systems")

	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	transcript := writeFile(t, t.TempDir(), "call.txt", "Q: hi")
	_, _, err := run(t, context.Background(), testConfig(), "analyze", transcript)
	assert.ErrorContains(t, err, "failed to create AI service")
}

func TestApplyServeFlags(t *testing.T) {
	cmd := newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9999", "--api-key", "a", "--api-key", "b", "--rate-limit"}))

	cfg := testConfig()
	host := cfg.Server.Host
	require.NoError(t, applyServeFlags(cfg, cmd.Flags()))

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, host, cfg.Server.Host, "unset flags keep the configured value")
	assert.Equal(t, []string{"a", "b"}, cfg.Server.APIKeys)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
}

func TestServeRejectsInvalidTLS(t *testing.T) {
	_, _, err := run(t, context.Background(), testConfig(), "serve", "--tls-mode", "server")
	assert.ErrorContains(t, err, "invalid TLS configuration")
}

func TestAcceptInputs(t *testing.T) {
	def := acceptInputs(nil)
	assert.True(t, def("a.json"))
	assert.True(t, def("a.YML"))
	assert.False(t, def("a.pdf"))

	only := acceptInputs([]string{".yaml"})
	assert.True(t, only("x.yaml"))
	assert.False(t, only("x.json"))
}

func TestWatchRendersExistingFiles(t *testing.T) {
	inbox := t.TempDir()
	out := filepath.Join(t.TempDir(), "reports")
	writeFile(t, inbox, "first.json", analysisJSON)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, _, err := run(t, ctx, testConfig(), "watch", inbox, "--out-dir", out, "--scan", "--debounce", "20ms")
		done <- err
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "first-report.pdf"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
