package server

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/ai"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	appErrors "github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/export"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "metadata": {"fileName": "interview.mp4", "candidateName": "Jordan Lee"},
  "scores": {"jdMatchScore": 82, "candidateEngagement": 74, "recruiterSentiment": 8, "flowContinuityScore": 65},
  "jobDescription": "Backend engineer building payment APIs in Go",
  "technicalSkills": ["Go", "PostgreSQL"],
  "jdRelevance": {
    "summary": "Strong alignment on API design.",
    "exchanges": [{"question": "Describe an API you designed", "answer": "A ledger service", "score": 88}]
  },
  "sentiment": {"candidatePerformance": "Confident and concise.", "recruiterEffectiveness": "Good follow-ups."},
  "flow": {"insights": ["Clear opening"], "issues": [{"text": "Abrupt topic change", "severity": "high"}]}
}`

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	cfg := config.Defaults()
	cfg.AI.APIKey = ""
	cfg.AI.Interview.APIKey = ""
	if mutate != nil {
		mutate(cfg)
	}

	s := NewServer(cfg, ServerConfigFrom(cfg, "test"), appErrors.Discard())
	t.Cleanup(func() {
		if s.RateLimiter != nil {
			s.RateLimiter.Close()
		}
	})
	return s
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

type stubAnalyzer struct {
	out  *types.ReportInput
	err  error
	last types.AnalyzeInterviewInput
}

func (s *stubAnalyzer) AnalyzeInterview(_ context.Context, in types.AnalyzeInterviewInput) (*types.ReportInput, *ai.TokenUsage, error) {
	s.last = in
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.out, &ai.TokenUsage{InputTokens: 40, OutputTokens: 20, TotalTokens: 60}, nil
}

func (s *stubAnalyzer) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "stub-model", Available: true}
}

func (s *stubAnalyzer) Close() error { return nil }

func TestHealthAndStats(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Handler(nil)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "test", health["version"])
	model := health["ai_model"].(map[string]any)
	assert.Equal(t, false, model["configured"])
	assert.NotContains(t, health, "certificates")

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, map[string]any{"enabled": false}, stats["rate_limiting"])
	server := stats["server"].(map[string]any)
	assert.Equal(t, false, server["ai_enabled"])
}

func TestHealthWithAnalyzer(t *testing.T) {
	s := newTestServer(t, nil)
	s.AI = ai.NewServiceWithAnalyzer(&stubAnalyzer{}, nil)

	rec := do(t, s.Handler(nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	model := health["ai_model"].(map[string]any)
	assert.Equal(t, true, model["available"])
	assert.Equal(t, "stub-model", model["name"])
	assert.Equal(t, map[string]any{"enabled": false}, health["circuit_breakers"])
}

func TestReportPDF(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s.Handler(nil), jsonRequest(http.MethodPost, "/report?reportId=rep-42", samplePayload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "rep-42", rec.Header().Get("X-Report-ID"))
	assert.Equal(t, `attachment; filename="interview-report.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Report-Pages"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestReportYAMLBody(t *testing.T) {
	s := newTestServer(t, nil)

	body := "metadata:\n  fileName: call.wav\nscores:\n  jdMatchScore: 50\n  candidateEngagement: 50\n  recruiterSentiment: 5\n  flowContinuityScore: 50\n"
	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/yaml")

	rec := do(t, s.Handler(nil), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="call-report.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Report-ID"), "a report id is generated when none is given")
}

func TestReportXLSX(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s.Handler(nil), jsonRequest(http.MethodPost, "/report?format=xlsx", samplePayload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="interview-report.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Report-ID"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip container")
}

func TestReportRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantCode string
	}{
		{"empty body", "/report", "", appErrors.ErrCodeInvalidRequest},
		{"malformed json", "/report", "{", appErrors.ErrCodeInvalidFormat},
		{"score out of range", "/report", `{"metadata":{"fileName":"a"},"scores":{"jdMatchScore":150}}`, appErrors.ErrCodeInvalidInput},
		{"unknown severity", "/report", `{"metadata":{"fileName":"a"},"flow":{"issues":[{"text":"x","severity":"urgent"}]}}`, appErrors.ErrCodeInvalidInput},
		{"unsupported format", "/report?format=docx", samplePayload, appErrors.ErrCodeInvalidFormat},
	}

	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s.Handler(nil), jsonRequest(http.MethodPost, tt.target, tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestReportMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s.Handler(nil), httptest.NewRequest(http.MethodGet, "/report", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestSizeLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.MaxRequestSize = 64 })

	rec := do(t, s.Handler(nil), jsonRequest(http.MethodPost, "/report", samplePayload))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, appErrors.ErrCodeFileTooLarge, decodeError(t, rec).Code)
}

func TestRecommendations(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s.Handler(nil), jsonRequest(http.MethodPost, "/recommendations", samplePayload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "interview.mp4", resp.FileName)
	assert.True(t, resp.TechnicalRole)
	assert.Equal(t, "strong", resp.Verdict)
	assert.NotEmpty(t, resp.Recommendations)
	assert.LessOrEqual(t, len(resp.Recommendations), 5)

	require.Len(t, resp.Cards, 4)
	assert.Equal(t, SummaryCard{Label: "JD Match", Value: "82%", Tone: "success"}, resp.Cards[0])
	assert.Equal(t, "8.0/10", resp.Cards[2].Value)
}

func TestExtract(t *testing.T) {
	s := newTestServer(t, nil)

	req := multipartRequest(t, "/extract", nil, "notes.txt", []byte("Recruiter:   Tell me about yourself.\n\nCandidate: I build APIs."))
	rec := do(t, s.Handler(nil), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc types.ExtractedDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "notes.txt", doc.FileName)
	assert.Equal(t, "txt", doc.Format)
	assert.Contains(t, doc.Text, "Tell me about yourself.")
}

func TestExtractRejections(t *testing.T) {
	tests := []struct {
		name       string
		maxSize    int64
		fileName   string
		content    []byte
		wantStatus int
		wantCode   string
	}{
		{"unsupported type", 0, "payload.exe", []byte("MZ"), http.StatusBadRequest, appErrors.ErrCodeUnsupportedFileType},
		{"too large", 8, "long.txt", []byte("far more than eight bytes"), http.StatusRequestEntityTooLarge, appErrors.ErrCodeFileTooLarge},
		{"no text", 0, "blank.txt", []byte("   \n  "), http.StatusUnprocessableEntity, appErrors.ErrCodeExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, func(c *config.Config) {
				if tt.maxSize > 0 {
					c.App.MaxFileSize = tt.maxSize
				}
			})
			rec := do(t, s.Handler(nil), multipartRequest(t, "/extract", nil, tt.fileName, tt.content))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}

	t.Run("missing file part", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := do(t, s.Handler(nil), multipartRequest(t, "/extract", map[string]string{"x": "y"}, "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := do(t, s.Handler(nil), jsonRequest(http.MethodPost, "/extract", "{}"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAnalyzeDisabledWithoutAPIKey(t *testing.T) {
	s := newTestServer(t, nil)
	require.Nil(t, s.AI)

	req := multipartRequest(t, "/analyze", map[string]string{"transcript": "Q: hello"}, "", nil)
	rec := do(t, s.Handler(nil), req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalyze(t *testing.T) {
	out := &types.ReportInput{
		Metadata: types.InterviewMetadata{FileName: "call.txt"},
		Scores:   types.Scores{JDMatchScore: 60, CandidateEngagement: 55, RecruiterSentiment: 6, FlowContinuityScore: 70},
	}

	t.Run("transcript upload", func(t *testing.T) {
		stub := &stubAnalyzer{out: out}
		s := newTestServer(t, nil)
		s.AI = ai.NewServiceWithAnalyzer(stub, nil)

		req := multipartRequest(t, "/analyze", map[string]string{"jobDescription": " Go engineer "}, "call.txt", []byte("Recruiter: Why Go?\nCandidate: Simplicity."))
		rec := do(t, s.Handler(nil), req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got types.ReportInput
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "call.txt", got.Metadata.FileName)
		assert.Equal(t, "call.txt", stub.last.FileName)
		assert.Equal(t, "Go engineer", stub.last.JobDescription)
		assert.Contains(t, stub.last.Transcript, "Why Go?")
	})

	t.Run("transcript field rendered as pdf", func(t *testing.T) {
		s := newTestServer(t, nil)
		s.AI = ai.NewServiceWithAnalyzer(&stubAnalyzer{out: out}, nil)

		req := multipartRequest(t, "/analyze?format=pdf", map[string]string{"transcript": "Q: hi\nA: hello"}, "", nil)
		rec := do(t, s.Handler(nil), req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("missing transcript", func(t *testing.T) {
		s := newTestServer(t, nil)
		s.AI = ai.NewServiceWithAnalyzer(&stubAnalyzer{out: out}, nil)

		rec := do(t, s.Handler(nil), multipartRequest(t, "/analyze", map[string]string{"jobDescription": "x"}, "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("model timeout", func(t *testing.T) {
		s := newTestServer(t, nil)
		s.AI = ai.NewServiceWithAnalyzer(&stubAnalyzer{
			err: appErrors.NewAIError(appErrors.ErrCodeAITimeout, "timed out", context.DeadlineExceeded),
		}, nil)

		rec := do(t, s.Handler(nil), multipartRequest(t, "/analyze", map[string]string{"transcript": "Q: hi"}, "", nil))
		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Equal(t, appErrors.ErrCodeAITimeout, decodeError(t, rec).Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.APIKeys = []string{"secret-key-123456"} })
	h := s.Handler(nil)

	rec := do(t, h, jsonRequest(http.MethodPost, "/recommendations", samplePayload))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := jsonRequest(http.MethodPost, "/recommendations", samplePayload)
	req.Header.Set("X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, do(t, h, req).Code)

	req = jsonRequest(http.MethodPost, "/recommendations", samplePayload)
	req.Header.Set("Authorization", "Bearer secret-key-123456")
	assert.Equal(t, http.StatusOK, do(t, h, req).Code)

	// health stays open
	assert.Equal(t, http.StatusOK, do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Server.RateLimit = config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 1,
			BurstCapacity:  1,
			ByIP:           true,
			Window:         time.Minute,
		}
	})
	h := s.Handler(nil)

	first := do(t, h, jsonRequest(http.MethodPost, "/recommendations", samplePayload))
	require.Equal(t, http.StatusOK, first.Code)

	second := do(t, h, jsonRequest(http.MethodPost, "/recommendations", samplePayload))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))

	other := jsonRequest(http.MethodPost, "/recommendations", samplePayload)
	other.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, http.StatusOK, do(t, h, other).Code, "limits are per client")

	stats := s.RateLimiter.GetStats()
	assert.Equal(t, int64(1), stats["rejected_requests"])
	assert.Equal(t, 2, stats["active_limiters"])
}

func TestGetRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/report", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	req.Header.Set("X-API-Key", "k1")

	assert.Equal(t, "api:k1", getRateLimitKey(req, true, true))
	assert.Equal(t, "ip:192.0.2.10", getRateLimitKey(req, false, true))
	assert.Equal(t, "", getRateLimitKey(req, false, false))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded first valid", map[string]string{"X-Forwarded-For": "garbage, 198.51.100.7, 10.0.0.1"}, "192.0.2.1:1", "198.51.100.7"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.5"}, "192.0.2.1:1", "203.0.113.5"},
		{"invalid real ip", map[string]string{"X-Real-IP": "nope"}, "192.0.2.1:1", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.8", "192.0.2.8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijkl"))
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", appErrors.NewValidationError(appErrors.ErrCodeInvalidInput, "bad", nil), http.StatusBadRequest},
		{"too large", appErrors.NewValidationError(appErrors.ErrCodeFileTooLarge, "big", nil), http.StatusRequestEntityTooLarge},
		{"extraction", appErrors.NewExtractionError(appErrors.ErrCodeExtractionFailed, "x", nil), http.StatusUnprocessableEntity},
		{"not found", appErrors.NewIOError(appErrors.ErrCodeFileNotFound, "x", nil), http.StatusNotFound},
		{"io", appErrors.NewIOError(appErrors.ErrCodeFileNotReadable, "x", nil), http.StatusInternalServerError},
		{"ai", appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "x", nil), http.StatusBadGateway},
		{"breaker open", appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "x", gobreaker.ErrOpenState), http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"render", appErrors.NewRenderError(appErrors.ErrCodeRenderFailed, "x", nil), http.StatusInternalServerError},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"max bytes", &http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestAttachment(t *testing.T) {
	assert.Equal(t, `attachment; filename="interview-report.pdf"`, attachment("", ".pdf"))
	assert.Equal(t, `attachment; filename="a_b-report.xlsx"`, attachment(`/tmp/a"b.mp4`, ".xlsx"))
}

func selfSignedPEM(t *testing.T, notAfter time.Time) (certPEM, keyPEM string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "sentivox.test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return certPEM, keyPEM
}

func TestBuildTLSConfig(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t, time.Now().Add(90*24*time.Hour))

	t.Run("server mode", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) {
			c.Server.TLS = config.TLSConfig{
				Mode:         TLSModeServer,
				CertContent:  certPEM,
				KeyContent:   keyPEM,
				MinVersion:   "1.3",
				CipherSuites: []string{"TLS_AES_128_GCM_SHA256", "NOT_A_SUITE"},
			}
		})
		httpServer := &http.Server{}
		require.NoError(t, s.configureTLS(httpServer))
		require.NotNil(t, httpServer.TLSConfig)

		assert.Equal(t, uint16(tls.VersionTLS13), httpServer.TLSConfig.MinVersion)
		assert.Equal(t, []uint16{tls.TLS_AES_128_GCM_SHA256}, httpServer.TLSConfig.CipherSuites)
		assert.Equal(t, tls.NoClientCert, httpServer.TLSConfig.ClientAuth)

		status := s.checkCertificateHealth(time.Now())
		require.NotNil(t, status)
		assert.Equal(t, "ok", status["status"])
		assert.Equal(t, "sentivox.test", status["subject"])
	})

	t.Run("mutual mode", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) {
			c.Server.TLS = config.TLSConfig{
				Mode:             TLSModeMutual,
				CertContent:      certPEM,
				KeyContent:       keyPEM,
				CAContent:        certPEM,
				ClientAuthPolicy: "verify",
			}
		})
		cfg, err := s.buildTLSConfig()
		require.NoError(t, err)
		assert.Equal(t, tls.VerifyClientCertIfGiven, cfg.ClientAuth)
		assert.NotNil(t, cfg.ClientCAs)
	})

	t.Run("mutual without CA", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) {
			c.Server.TLS = config.TLSConfig{Mode: TLSModeMutual, CertContent: certPEM, KeyContent: keyPEM}
		})
		_, err := s.buildTLSConfig()
		assert.ErrorContains(t, err, "CA certificate is required")
	})

	t.Run("missing certificate", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) { c.Server.TLS = config.TLSConfig{Mode: TLSModeServer} })
		assert.Error(t, s.configureTLS(&http.Server{}))
	})

	t.Run("disabled", func(t *testing.T) {
		s := newTestServer(t, nil)
		httpServer := &http.Server{}
		require.NoError(t, s.configureTLS(httpServer))
		assert.Nil(t, httpServer.TLSConfig)
	})

	t.Run("invalid mode", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) { c.Server.TLS.Mode = "sometimes" })
		assert.ErrorContains(t, s.configureTLS(&http.Server{}), "invalid TLS mode")
	})
}

func TestCertificateHealth(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t, time.Now().Add(48*time.Hour))
	s := newTestServer(t, func(c *config.Config) {
		c.Server.TLS = config.TLSConfig{Mode: TLSModeServer, CertContent: certPEM, KeyContent: keyPEM}
	})
	_, err := s.buildTLSConfig()
	require.NoError(t, err)

	now := time.Now()
	tests := []struct {
		at      time.Time
		status  string
		healthy bool
	}{
		{now, "warning", true},
		{now.Add(30 * time.Hour), "critical", false},
		{now.Add(72 * time.Hour), "expired", false},
	}
	for _, tt := range tests {
		got := s.checkCertificateHealth(tt.at)
		assert.Equal(t, tt.status, got["status"])
		assert.Equal(t, tt.healthy, got["healthy"])
	}

	rec := do(t, s.Handler(nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "a warning does not degrade health")
}

func TestDisplayServerInfo(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.APIKeys = []string{"k"} })

	var buf bytes.Buffer
	s.displayServerInfo(&buf, s.setupHTTPServer(nil))
	out := buf.String()

	assert.Contains(t, out, "http://")
	assert.Contains(t, out, "POST /report")
	assert.Contains(t, out, "DISABLED (no AI API key)")
	assert.Contains(t, out, "API authentication: ENABLED (1 keys configured)")
}

func TestStartStopsOnCancel(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Server.Host = "127.0.0.1"
		c.Server.Port = "0"
		c.Observability.Enabled = false
		c.Observability.Prometheus.Enabled = false
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func BenchmarkRecommendationsHandler(b *testing.B) {
	cfg := config.Defaults()
	cfg.AI.APIKey = ""
	s := NewServer(cfg, ServerConfigFrom(cfg, "bench"), appErrors.Discard())
	h := s.Handler(nil)

	for b.Loop() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, jsonRequest(http.MethodPost, "/recommendations", samplePayload))
	}
}
