package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	appErrors "github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/export"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/observability"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/recommend"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "sentivox.api"

	// multipart parts beyond this stay on disk until the request ends
	multipartMemory = 8 << 20
)

// RecommendationsResponse is the body of POST /recommendations
type RecommendationsResponse struct {
	types.RecommendationList
	Cards []SummaryCard `json:"cards"`
}

// SummaryCard is one executive summary metric as JSON
type SummaryCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Tone  string `json:"tone"`
}

// decodeReportInput reads a JSON or YAML analysis payload from the body
func (s *Server) decodeReportInput(r *http.Request) (*types.ReportInput, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "request body is empty", nil)
	}

	name := "request.json"
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		name = "request.yaml"
	}
	return s.Loader.Decode(name, body)
}

// createReportHandler renders the posted analysis as a PDF report, or as
// an XLSX scorecard with ?format=xlsx
func (s *Server) createReportHandler(om *observability.ObservabilityManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.report")
		defer span.End()

		format := strings.ToLower(r.URL.Query().Get("format"))
		if format == "" {
			format = common.ReportFormatPDF
		}
		if err := common.ValidateReportFormat(format); err != nil {
			s.fail(w, span, appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat, err.Error(), nil))
			return
		}

		in, err := s.decodeReportInput(r)
		if err != nil {
			s.fail(w, span, err)
			return
		}

		ro := report.RenderOptions{ReportID: r.URL.Query().Get("reportId")}
		span.SetAttributes(
			attribute.String("report.format", format),
			attribute.String("report.file_name", in.Metadata.FileName),
		)

		if format == common.ReportFormatXLSX {
			s.writeScorecard(ctx, w, span, om, in, ro)
			return
		}

		start := time.Now()
		res, err := s.Renderer.Render(ctx, in, ro)
		metrics := om.GetMetrics()
		if err != nil {
			metrics.RecordRender(ctx, om, 0, time.Since(start), err, attribute.String("format", format))
			s.fail(w, span, err)
			return
		}
		metrics.RecordRender(ctx, om, res.Pages, time.Since(start), nil, attribute.String("format", format))

		span.SetAttributes(attribute.Int("report.pages", res.Pages))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", attachment(in.Metadata.FileName, ".pdf"))
		w.Header().Set("X-Report-ID", res.ReportID)
		w.Header().Set("X-Report-Pages", strconv.Itoa(res.Pages))
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		if _, err := w.Write(res.Data); err != nil {
			s.Logger.Warn("Failed to write report response", "report_id", res.ReportID, "error", err.Error())
		}
	})
}

func (s *Server) writeScorecard(ctx context.Context, w http.ResponseWriter, span trace.Span, om *observability.ObservabilityManager, in *types.ReportInput, ro report.RenderOptions) {
	if ro.ReportID == "" {
		ro.ReportID = uuid.NewString()
	}

	start := time.Now()
	var buf bytes.Buffer
	err := export.Write(&buf, in, s.Renderer.Options(), ro)
	om.GetMetrics().RecordRender(ctx, om, 0, time.Since(start), err, attribute.String("format", common.ReportFormatXLSX))
	if err != nil {
		s.fail(w, span, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", attachment(in.Metadata.FileName, ".xlsx"))
	w.Header().Set("X-Report-ID", ro.ReportID)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.Logger.Warn("Failed to write scorecard response", "report_id", ro.ReportID, "error", err.Error())
	}
}

// createRecommendationsHandler returns the recommendation list and summary
// cards for the posted analysis without rendering a document
func (s *Server) createRecommendationsHandler(om *observability.ObservabilityManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, span := om.Tracer(tracerName).Start(r.Context(), "api.recommendations")
		defer span.End()

		in, err := s.decodeReportInput(r)
		if err != nil {
			s.fail(w, span, err)
			return
		}

		opts := s.Renderer.Options()
		resp := RecommendationsResponse{
			RecommendationList: recommend.Build(*in, opts.MaxRecommendations, opts.RecommendationMaxChars),
		}
		for _, c := range report.SummaryCards(in.Scores) {
			resp.Cards = append(resp.Cards, SummaryCard{Label: c.Label, Value: c.Value, Tone: string(c.Tone)})
		}

		span.SetAttributes(
			attribute.String("recommendations.verdict", resp.Verdict),
			attribute.Int("recommendations.count", len(resp.Recommendations)),
		)
		s.writeJSON(w, http.StatusOK, resp)
	})
}

// uploadedFile reads the multipart part named field, enforcing the upload policy
// before the content is read
func (s *Server) uploadedFile(r *http.Request, field string) (string, []byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if err == http.ErrNotMultipart {
			return "", nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
				"multipart/form-data body required", err)
		}
		return "", nil, err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
				fmt.Sprintf("%q file part is required", field), err)
		}
		return "", nil, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	if err := s.Extractor.Policy().Check(header.Filename, header.Size); err != nil {
		return header.Filename, nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return header.Filename, nil, appErrors.NewIOError(appErrors.ErrCodeFileNotReadable, "failed to read upload", err)
	}
	return header.Filename, data, nil
}

// createExtractHandler extracts plain text from an uploaded PDF, DOCX or TXT
func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.extract")
		defer span.End()

		name, data, err := s.uploadedFile(r, "file")
		metrics := om.GetMetrics()
		if err != nil {
			metrics.RecordExtraction(ctx, om, int64(len(data)), err)
			s.fail(w, span, err)
			return
		}

		doc, err := s.Extractor.ExtractBytes(ctx, name, data)
		metrics.RecordExtraction(ctx, om, int64(len(data)), err, attribute.String("format", utils.GetFileExtension(name)))
		if err != nil {
			s.fail(w, span, err)
			return
		}

		span.SetAttributes(
			attribute.String("document.format", doc.Format),
			attribute.Int("document.text_length", len(doc.Text)),
		)
		s.writeJSON(w, http.StatusOK, doc)
	})
}

// createAnalyzeHandler runs AI analysis over an uploaded transcript. The
// transcript comes from the "file" part or the "transcript" field; the
// optional "jobDescription" field scores job relevance. ?format=pdf renders
// the result straight into a report.
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.analyze")
		defer span.End()

		if s.AI == nil {
			msg := "AI analysis is not configured"
			if s.AIError != nil {
				msg = s.AIError.Error()
			}
			span.SetStatus(codes.Error, "ai unavailable")
			writeErrorResponse(w, "AI analysis unavailable", msg, http.StatusServiceUnavailable)
			return
		}

		format := strings.ToLower(r.URL.Query().Get("format"))
		if format != "" && format != "json" && format != common.ReportFormatPDF {
			s.fail(w, span, appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat,
				fmt.Sprintf("unsupported format %q (json or pdf)", format), nil))
			return
		}

		input, err := s.analyzeInput(ctx, r)
		if err != nil {
			s.fail(w, span, err)
			return
		}
		span.SetAttributes(
			attribute.String("operation", "interview"),
			attribute.Int("request.transcript_length", len(input.Transcript)),
			attribute.Int("request.job_length", len(input.JobDescription)),
		)

		metrics := om.GetMetrics()
		var result *types.ReportInput
		err = metrics.TrackAIOperationWithTokens(ctx, "interview", func(ctx context.Context) *observability.AIOperationResult {
			out, usage, aiErr := s.AI.AnalyzeInterview(ctx, input)
			result = out
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(usage),
			}
		}, om)
		metrics.RecordBusinessMetric(ctx, observability.MetricInterviewAnalyzed, err == nil, om)
		if err != nil {
			s.fail(w, span, err)
			return
		}

		if format == common.ReportFormatPDF {
			start := time.Now()
			res, err := s.Renderer.Render(ctx, result, report.RenderOptions{})
			if err != nil {
				metrics.RecordRender(ctx, om, 0, time.Since(start), err, attribute.String("format", format))
				s.fail(w, span, err)
				return
			}
			metrics.RecordRender(ctx, om, res.Pages, time.Since(start), nil, attribute.String("format", format))
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", attachment(result.Metadata.FileName, ".pdf"))
			w.Header().Set("X-Report-ID", res.ReportID)
			w.Header().Set("X-Report-Pages", strconv.Itoa(res.Pages))
			_, _ = w.Write(res.Data)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	})
}

func (s *Server) analyzeInput(ctx context.Context, r *http.Request) (types.AnalyzeInterviewInput, error) {
	input := types.AnalyzeInterviewInput{FileName: "transcript.txt"}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if err == http.ErrNotMultipart {
			return input, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
				"multipart/form-data body required", err)
		}
		return input, err
	}

	if len(r.MultipartForm.File["file"]) > 0 {
		name, data, err := s.uploadedFile(r, "file")
		if err != nil {
			return input, err
		}
		doc, err := s.Extractor.ExtractBytes(ctx, name, data)
		if err != nil {
			return input, err
		}
		input.FileName = name
		input.Transcript = doc.Text
	} else {
		input.Transcript = r.FormValue("transcript")
	}

	if strings.TrimSpace(input.Transcript) == "" {
		return input, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			"a transcript file or transcript field is required", nil)
	}
	input.JobDescription = strings.TrimSpace(r.FormValue("jobDescription"))
	return input, nil
}

// attachment builds a Content-Disposition value named after the interview
func attachment(fileName, ext string) string {
	base := utils.BaseName(fileName)
	if base == "" {
		base = "interview"
	}
	base = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, base)
	return fmt.Sprintf(`attachment; filename="%s-report%s"`, base, ext)
}

// rateLimitMetrics counts 429 responses produced by the wrapped chain
func (s *Server) rateLimitMetrics(om *observability.ObservabilityManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		if wrapper.statusCode == http.StatusTooManyRequests {
			om.GetMetrics().RecordBusinessMetric(r.Context(), observability.MetricRateLimitHit, true, om,
				attribute.String("endpoint", r.URL.Path),
				attribute.String("method", r.Method))
		}
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWrapper) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
