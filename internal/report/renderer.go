// Package report assembles an interview analysis into a paginated document.
// Layout runs against any layout.Canvas; the default backend writes PDF.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/recommend"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	reportTitle       = "Interview Analysis Report"
	noFlowIssuesText  = "No significant flow issues detected."
	bannerHeight      = 24
	bannerGap         = 4
	answerIndent      = 5
	footerDateFormat  = "2006-01-02 15:04 MST"
	headerDateFormat  = "January 2, 2006"
	defaultBrand      = "Sentivox"
	defaultProvenance = "Generated by %s"
)

// Options are the report-wide settings shared by every render
type Options struct {
	PageSize    string
	Orientation string
	Margins     layout.Margins
	Metrics     layout.Metrics

	Brand  string
	Author string

	MaxRecommendations     int
	RecommendationMaxChars int
	MaxFlowIssues          int
	SummaryPoints          int
	MaxExchanges           int
	AnswerMaxChars         int
}

// DefaultOptions returns the A4 house layout
func DefaultOptions() Options {
	return Options{
		PageSize:               "A4",
		Orientation:            "P",
		Margins:                layout.DefaultMargins(),
		Metrics:                layout.DefaultMetrics(),
		Brand:                  defaultBrand,
		MaxRecommendations:     5,
		RecommendationMaxChars: 160,
		MaxFlowIssues:          3,
		SummaryPoints:          3,
		MaxExchanges:           5,
		AnswerMaxChars:         400,
	}
}

// RenderOptions carry per-render values supplied by the caller
type RenderOptions struct {
	// GeneratedAt is printed in the banner and the footer; zero means now
	GeneratedAt time.Time
	// ReportID is printed in the footer; empty means a fresh UUID
	ReportID string
}

// Result describes a finished render
type Result struct {
	ReportID        string
	GeneratedAt     time.Time
	Pages           int
	Data            []byte
	Cards           []layout.Card
	Recommendations types.RecommendationList
}

// CanvasFactory creates the backend for one render
type CanvasFactory func(layout.PDFOptions) layout.Canvas

func newPDFCanvas(opts layout.PDFOptions) layout.Canvas {
	return layout.NewPDFCanvas(opts)
}

// Renderer lays out reports. It holds no per-render state, so one Renderer
// may serve concurrent renders; each render gets its own canvas.
type Renderer struct {
	opts      Options
	newCanvas CanvasFactory
	validate  *validator.Validate
	logger    *errors.Logger
}

// NewRenderer creates a renderer writing PDF documents
func NewRenderer(opts Options, logger *errors.Logger) *Renderer {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Renderer{
		opts:      opts.WithLimits(),
		newCanvas: newPDFCanvas,
		validate:  validator.New(),
		logger:    logger,
	}
}

// SetCanvasFactory replaces the PDF backend, typically with a recorder in tests
func (r *Renderer) SetCanvasFactory(f CanvasFactory) {
	if f != nil {
		r.newCanvas = f
	}
}

// Options returns the renderer settings
func (r *Renderer) Options() Options {
	return r.opts
}

// Validate checks score ranges and severities of an input
func (r *Renderer) Validate(in *types.ReportInput) error {
	if in == nil {
		return errors.NewValidationError(errors.ErrCodeInvalidInput, "report input is required", nil)
	}
	if err := r.validate.Struct(in); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			return errors.NewInternalError("VALIDATOR_MISUSE", "report input could not be validated", err)
		}
		return errors.NewValidationError(errors.ErrCodeInvalidInput, "invalid report input", err)
	}
	return nil
}

// Render lays out one report and serializes it. Either the whole document
// is returned or an error; a failing backend never yields partial output.
func (r *Renderer) Render(ctx context.Context, in *types.ReportInput, ro RenderOptions) (*Result, error) {
	tracer := otel.Tracer("sentivox.report")
	ctx, span := tracer.Start(ctx, "report.render")
	defer span.End()

	if err := r.Validate(in); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ro.GeneratedAt.IsZero() {
		ro.GeneratedAt = time.Now().UTC()
	}
	if ro.ReportID == "" {
		ro.ReportID = uuid.NewString()
	}

	span.SetAttributes(
		attribute.String("report.id", ro.ReportID),
		attribute.String("report.file_name", in.Metadata.FileName),
		attribute.Bool("report.has_jd_relevance", in.HasJDRelevance()),
		attribute.Bool("report.has_sentiment", in.HasSentiment()),
		attribute.Bool("report.has_flow", in.HasFlow()),
	)

	canvas := r.newCanvas(layout.PDFOptions{
		PageSize:    r.opts.PageSize,
		Orientation: r.opts.Orientation,
		Title:       reportTitle,
		Subject:     in.Metadata.FileName,
		Author:      r.opts.Author,
		Creator:     r.brand(),
		CreatedAt:   ro.GeneratedAt,
	})
	doc, err := layout.NewDocument(canvas, r.opts.Margins, r.opts.Metrics)
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "invalid page geometry", err)
	}

	cards := SummaryCards(in.Scores)
	recs := recommend.Build(*in, r.opts.MaxRecommendations, r.opts.RecommendationMaxChars)

	st := doc.Begin()
	r.drawBanner(doc, st, in, ro)
	r.drawSummary(doc, st, in, cards)
	if in.HasJDRelevance() {
		r.drawJDRelevance(doc, st, in.JDRelevance)
	}
	if in.HasSentiment() {
		r.drawBehavior(doc, st, in.Sentiment)
	}
	if in.HasFlow() {
		r.drawFlow(doc, st, in.Flow)
	}
	r.drawRecommendations(doc, st, recs.Recommendations)
	r.drawFooters(doc, r.provenance(ro))

	if err := canvas.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend failure")
		r.logger.LogError(err, "Report layout failed", "report_id", ro.ReportID)
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "failed to lay out report", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "output failure")
		r.logger.LogError(err, "Report output failed", "report_id", ro.ReportID)
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "failed to write report", err)
	}

	pages := canvas.PageCount()
	span.SetAttributes(
		attribute.Int("report.pages", pages),
		attribute.Int("report.bytes", buf.Len()),
	)
	r.logger.Debug("Report rendered",
		"report_id", ro.ReportID,
		"file_name", in.Metadata.FileName,
		"pages", pages,
		"bytes", buf.Len())

	return &Result{
		ReportID:        ro.ReportID,
		GeneratedAt:     ro.GeneratedAt,
		Pages:           pages,
		Data:            buf.Bytes(),
		Cards:           cards,
		Recommendations: recs,
	}, nil
}

func (r *Renderer) brand() string {
	if r.opts.Brand == "" {
		return defaultBrand
	}
	return r.opts.Brand
}

func (r *Renderer) provenance(ro RenderOptions) string {
	return fmt.Sprintf(defaultProvenance+" | %s | Report %s",
		r.brand(), ro.GeneratedAt.Format(footerDateFormat), ro.ReportID)
}

func (r *Renderer) drawBanner(d *layout.Document, st *layout.LayoutState, in *types.ReportInput, ro RenderOptions) {
	c := d.Canvas()
	m := d.Margins()
	d.EnsureSpace(st, bannerHeight)

	c.FillRect(m.Left, st.CursorY, d.ContentWidth(), bannerHeight, layout.ColorPrimary)
	c.Text(m.Left+5, st.CursorY+11, reportTitle, 18, layout.Bold, layout.ColorTextLight)
	subtitle := fmt.Sprintf("%s | %s", r.brand(), ro.GeneratedAt.Format(headerDateFormat))
	c.Text(m.Left+5, st.CursorY+19, subtitle, 9, layout.Regular, layout.ColorTextLight)
	d.Advance(st, bannerHeight+bannerGap)

	if line := metadataLine(in.Metadata); line != "" {
		d.Paragraph(st, line, layout.ParagraphStyle{Size: d.Metrics().SmallSize + 1, Color: layout.ColorTextMuted})
	}
}

func metadataLine(md types.InterviewMetadata) string {
	var parts []string
	if md.CandidateName != "" {
		parts = append(parts, "Candidate: "+md.CandidateName)
	}
	if md.Role != "" {
		parts = append(parts, "Role: "+md.Role)
	}
	if md.FileName != "" {
		parts = append(parts, "Source: "+md.FileName)
	}
	if !md.RecordedAt.IsZero() {
		parts = append(parts, "Recorded: "+md.RecordedAt.Format("2006-01-02"))
	}
	return strings.Join(parts, "   ")
}

func (r *Renderer) drawSummary(d *layout.Document, st *layout.LayoutState, in *types.ReportInput, cards []layout.Card) {
	d.SectionHeader(st, "Executive Summary")
	for _, card := range cards {
		d.AddCard(st, card)
	}
	d.FlushGrid(st)

	var skills []string
	for _, s := range in.TechnicalSkills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) > 0 {
		d.Paragraph(st, "Technical skills evidenced: "+strings.Join(skills, ", "), layout.ParagraphStyle{})
	}
}

func (r *Renderer) drawJDRelevance(d *layout.Document, st *layout.LayoutState, jd *types.JDRelevance) {
	d.SectionHeader(st, "Job Description Relevance")
	if summary := strings.TrimSpace(jd.Summary); summary != "" {
		d.Paragraph(st, summary, layout.ParagraphStyle{Justify: true})
	}

	exchanges := jd.Exchanges
	if len(exchanges) > r.opts.MaxExchanges {
		exchanges = exchanges[:r.opts.MaxExchanges]
	}
	for i, ex := range exchanges {
		if i > 0 {
			d.Divider(st)
		}
		question := fmt.Sprintf("Q%d. %s (relevance %.0f%%)", i+1, strings.TrimSpace(ex.Question), ex.Score)
		d.Paragraph(st, question, layout.ParagraphStyle{Style: layout.Bold, Color: layout.ColorPrimary})
		if answer := strings.TrimSpace(ex.Answer); answer != "" {
			d.Paragraph(st, utils.Truncate(answer, r.opts.AnswerMaxChars), layout.ParagraphStyle{
				Justify: true,
				Indent:  answerIndent,
				Color:   layout.ColorTextMuted,
			})
		}
	}
}

func (r *Renderer) drawBehavior(d *layout.Document, st *layout.LayoutState, s *types.SentimentAnalysis) {
	d.SectionHeader(st, "Behavioral Analysis")
	if r.summaryBlock(d, st, "Candidate Performance", s.CandidatePerformance) &&
		strings.TrimSpace(s.RecruiterEffectiveness) != "" {
		d.Divider(st)
	}
	r.summaryBlock(d, st, "Recruiter Effectiveness", s.RecruiterEffectiveness)
}

// summaryBlock prints a subheading and the text condensed to bullets. Text
// without a usable sentence is printed as is. It reports whether anything
// was drawn.
func (r *Renderer) summaryBlock(d *layout.Document, st *layout.LayoutState, title, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	d.Paragraph(st, title, layout.ParagraphStyle{Style: layout.Bold, Color: layout.ColorPrimary})
	if d.SummaryBullets(st, text, 0, r.opts.SummaryPoints) == 0 {
		d.Paragraph(st, text, layout.ParagraphStyle{Justify: true})
	}
	return true
}

func (r *Renderer) drawFlow(d *layout.Document, st *layout.LayoutState, flow *types.FlowAnalysis) {
	d.SectionHeader(st, "Interview Flow & Structure")
	for _, insight := range flow.Insights {
		if insight = strings.TrimSpace(insight); insight != "" {
			d.Bullet(st, insight, 0, "")
		}
	}

	issues := SignificantIssues(flow.Issues, r.opts.MaxFlowIssues)
	if len(issues) == 0 {
		d.Paragraph(st, noFlowIssuesText, layout.ParagraphStyle{Style: layout.Italic, Color: layout.ColorTextMuted})
		return
	}
	d.Paragraph(st, "Flow issues", layout.ParagraphStyle{Style: layout.Bold, Color: layout.ColorPrimary})
	for _, issue := range issues {
		d.Bullet(st, fmt.Sprintf("%s: %s", severityLabel(issue.Severity), strings.TrimSpace(issue.Text)), 1, "")
	}
}

// SignificantIssues keeps medium and high issues in input order, capped at limit
func SignificantIssues(issues []types.FlowIssue, limit int) []types.FlowIssue {
	var out []types.FlowIssue
	for _, issue := range issues {
		if !issue.Severity.AtLeastMedium() {
			continue
		}
		out = append(out, issue)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func severityLabel(s types.Severity) string {
	l := strings.ToLower(string(s))
	if l == "" {
		return ""
	}
	return strings.ToUpper(l[:1]) + l[1:]
}

func (r *Renderer) drawRecommendations(d *layout.Document, st *layout.LayoutState, recs []string) {
	d.SectionHeader(st, "Recommendations")
	for i, rec := range recs {
		d.Bullet(st, rec, 0, fmt.Sprintf("%d.", i+1))
	}
}

// drawFooters runs once layout is complete so the total page count is known.
// Footers sit below the safe bottom, where body content never goes.
func (r *Renderer) drawFooters(d *layout.Document, provenance string) {
	c := d.Canvas()
	m := d.Margins()
	size := d.Metrics().SmallSize
	right := m.Left + d.ContentWidth()
	ruleY := d.SafeBottom() + m.Bottom*0.25
	textY := d.SafeBottom() + m.Bottom*0.5

	total := c.PageCount()
	for i := 1; i <= total; i++ {
		c.SetPage(i)
		c.Line(m.Left, ruleY, right, ruleY, layout.ColorGridLine, 0.3)
		c.Text(m.Left, textY, provenance, size, layout.Regular, layout.ColorTextMuted)
		label := fmt.Sprintf("Page %d of %d", i, total)
		c.Text(right-c.StringWidth(label, size, layout.Regular), textY, label, size, layout.Regular, layout.ColorTextMuted)
	}
}
