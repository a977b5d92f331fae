// Package export writes interview analyses as XLSX scorecards
package export

import (
	"io"
	"strings"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/recommend"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"

	"github.com/xuri/excelize/v2"
)

// Sheet names in workbook order
const (
	SummarySheet         = "Summary"
	ExchangesSheet       = "Exchanges"
	FlowSheet            = "Flow"
	RecommendationsSheet = "Recommendations"
)

// ContentType is the media type of the written workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var toneFills = map[layout.Tone]string{
	layout.ToneSuccess: "C6EFCE",
	layout.ToneWarning: "FFEB9C",
	layout.ToneDanger:  "FFC7CE",
	layout.ToneNeutral: "EDEDED",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// sheet remembers the first cell error so writers can stay linear
type sheet struct {
	f    *excelize.File
	name string
	err  error
}

func (s *sheet) set(col, row int, value any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err == nil {
		err = s.f.SetCellValue(s.name, cell, value)
	}
	s.err = err
}

func (s *sheet) style(fromCol, toCol, row, styleID int) {
	if s.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(fromCol, row)
	to, _ := excelize.CoordinatesToCellName(toCol, row)
	s.err = s.f.SetCellStyle(s.name, from, to, styleID)
}

func (s *sheet) widths(widths ...float64) {
	for i, w := range widths {
		if s.err != nil {
			return
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		s.err = s.f.SetColWidth(s.name, col, col, w)
	}
}

func (s *sheet) header(styleID int, titles ...string) {
	for i, title := range titles {
		s.set(i+1, 1, title)
	}
	s.style(1, len(titles), 1, styleID)
	if s.err == nil {
		s.err = s.f.SetPanes(s.name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
}

type styles struct {
	header int
	label  int
	wrap   int
	tones  map[layout.Tone]int
}

func newStyles(f *excelize.File) (*styles, error) {
	s := &styles{tones: make(map[layout.Tone]int, len(toneFills))}
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1E3A5F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	}); err != nil {
		return nil, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	if s.wrap, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	}); err != nil {
		return nil, err
	}
	for tone, color := range toneFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return nil, err
		}
		s.tones[tone] = id
	}
	return s, nil
}

// Write builds the scorecard workbook for in and writes it to w. Limits on
// recommendations follow opts so the workbook agrees with the PDF report;
// exchanges and flow issues are listed in full.
func Write(w io.Writer, in *types.ReportInput, opts report.Options, ro report.RenderOptions) error {
	if in == nil {
		return errors.NewValidationError(errors.ErrCodeInvalidInput, "report input is required", nil)
	}
	if ro.GeneratedAt.IsZero() {
		ro.GeneratedAt = time.Now()
	}
	opts = opts.WithLimits()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	st, err := newStyles(f)
	if err != nil {
		return exportError(err)
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return exportError(err)
	}
	for _, name := range []string{ExchangesSheet, FlowSheet, RecommendationsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return exportError(err)
		}
	}

	recs := recommend.Build(*in, opts.MaxRecommendations, opts.RecommendationMaxChars)

	for _, write := range []func(*excelize.File, *styles) error{
		func(f *excelize.File, st *styles) error { return writeSummary(f, st, in, recs, ro) },
		func(f *excelize.File, st *styles) error { return writeExchanges(f, st, in) },
		func(f *excelize.File, st *styles) error { return writeFlow(f, st, in, opts.MaxFlowIssues) },
		func(f *excelize.File, st *styles) error { return writeRecommendations(f, st, recs) },
	} {
		if err := write(f, st); err != nil {
			return exportError(err)
		}
	}

	if err := f.Write(w); err != nil {
		return exportError(err)
	}
	return nil
}

func exportError(err error) error {
	return errors.NewRenderError(errors.ErrCodeRenderFailed, "failed to build scorecard workbook", err)
}

func writeSummary(f *excelize.File, st *styles, in *types.ReportInput, recs types.RecommendationList, ro report.RenderOptions) error {
	s := &sheet{f: f, name: SummarySheet}
	s.widths(28, 24, 14)

	s.set(1, 1, "Interview Analysis Report")
	s.style(1, 3, 1, st.header)
	if s.err == nil {
		s.err = f.MergeCell(SummarySheet, "A1", "C1")
	}

	row := 3
	for _, kv := range [][2]string{
		{"Report ID", ro.ReportID},
		{"Generated", ro.GeneratedAt.Format("2006-01-02 15:04 MST")},
		{"Source", in.Metadata.FileName},
		{"Candidate", in.Metadata.CandidateName},
		{"Role", in.Metadata.Role},
		{"Verdict", recs.Verdict},
	} {
		s.set(1, row, kv[0])
		s.style(1, 1, row, st.label)
		s.set(2, row, kv[1])
		row++
	}

	row++
	for i, title := range []string{"Metric", "Value", "Tone"} {
		s.set(i+1, row, title)
	}
	s.style(1, 3, row, st.header)
	row++
	for _, card := range report.SummaryCards(in.Scores) {
		s.set(1, row, card.Label)
		s.set(2, row, card.Value)
		s.set(3, row, string(card.Tone))
		s.style(1, 3, row, st.tones[card.Tone])
		row++
	}

	if len(in.TechnicalSkills) > 0 {
		row++
		s.set(1, row, "Technical skills")
		s.style(1, 1, row, st.label)
		s.set(2, row, strings.Join(in.TechnicalSkills, ", "))
	}
	return s.err
}

func writeExchanges(f *excelize.File, st *styles, in *types.ReportInput) error {
	s := &sheet{f: f, name: ExchangesSheet}
	s.widths(6, 50, 70, 12)
	s.header(st.header, "#", "Question", "Answer", "Relevance")

	if in.JDRelevance == nil {
		return s.err
	}
	for i, ex := range in.JDRelevance.Exchanges {
		row := i + 2
		s.set(1, row, i+1)
		s.set(2, row, ex.Question)
		s.set(3, row, ex.Answer)
		s.set(4, row, ex.Score)
		s.style(1, 3, row, st.wrap)
		s.style(4, 4, row, st.tones[report.JDMatchThreshold.Tone(ex.Score)])
	}
	return s.err
}

func writeFlow(f *excelize.File, st *styles, in *types.ReportInput, limit int) error {
	s := &sheet{f: f, name: FlowSheet}
	s.widths(12, 70, 14)
	s.header(st.header, "Severity", "Issue", "In report")

	if in.Flow == nil {
		return s.err
	}
	printed := make(map[int]bool)
	shown := 0
	for i, issue := range in.Flow.Issues {
		if issue.Severity.AtLeastMedium() && (limit <= 0 || shown < limit) {
			printed[i] = true
			shown++
		}
	}
	for i, issue := range in.Flow.Issues {
		row := i + 2
		s.set(1, row, string(issue.Severity))
		s.set(2, row, issue.Text)
		s.set(3, row, yesNo(printed[i]))
		tone := layout.ToneNeutral
		if issue.Severity.AtLeastMedium() {
			tone = layout.ToneWarning
		}
		s.style(1, 3, row, st.tones[tone])
	}

	row := len(in.Flow.Issues) + 3
	for _, insight := range in.Flow.Insights {
		s.set(1, row, "Insight")
		s.set(2, row, insight)
		s.style(1, 2, row, st.wrap)
		row++
	}
	return s.err
}

func writeRecommendations(f *excelize.File, st *styles, recs types.RecommendationList) error {
	s := &sheet{f: f, name: RecommendationsSheet}
	s.widths(6, 100)
	s.header(st.header, "#", "Recommendation")
	for i, rec := range recs.Recommendations {
		s.set(1, i+2, i+1)
		s.set(2, i+2, rec)
		s.style(1, 2, i+2, st.wrap)
	}
	return s.err
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
