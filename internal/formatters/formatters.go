package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"

	"gopkg.in/yaml.v3"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("yaml", "any", &YAMLFormatter{})
	registry.RegisterFormatter("text", "RecommendationList", &RecommendationTextFormatter{})
	registry.RegisterFormatter("markdown", "RecommendationList", &RecommendationMarkdownFormatter{})
	registry.RegisterFormatter("text", "ExtractedDocument", &DocumentTextFormatter{})
	registry.RegisterFormatter("markdown", "ExtractedDocument", &DocumentMarkdownFormatter{})
	registry.RegisterFormatter("text", "ReportInput", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "ReportInput", &AnalysisMarkdownFormatter{})

	return registry
}

// GlobalRegistry is the registry used by command output handling
var GlobalRegistry = NewFormatterRegistry()

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	data = deref(data)
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func deref(data any) any {
	switch v := data.(type) {
	case *types.RecommendationList:
		if v != nil {
			return *v
		}
	case *types.ExtractedDocument:
		if v != nil {
			return *v
		}
	case *types.ReportInput:
		if v != nil {
			return *v
		}
	}
	return data
}

func getDataType(data any) string {
	switch data.(type) {
	case types.RecommendationList:
		return "RecommendationList"
	case types.ExtractedDocument:
		return "ExtractedDocument"
	case types.ReportInput:
		return "ReportInput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// YAMLFormatter emits YAML, which the render command reads back as input
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return "any"
}

// RecommendationTextFormatter prints a numbered recommendation list
type RecommendationTextFormatter struct{}

func (rtf *RecommendationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RecommendationList)
	if !ok {
		return "", fmt.Errorf("expected RecommendationList, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== RECOMMENDATIONS ===\n\n")
	if result.FileName != "" {
		fmt.Fprintf(&output, "Source: %s\n", result.FileName)
	}
	fmt.Fprintf(&output, "Verdict: %s\n", result.Verdict)
	fmt.Fprintf(&output, "Technical role: %t\n\n", result.TechnicalRole)
	for i, rec := range result.Recommendations {
		fmt.Fprintf(&output, "%d. %s\n", i+1, rec)
	}
	return output.String(), nil
}

func (rtf *RecommendationTextFormatter) SupportedType() string {
	return "RecommendationList"
}

// RecommendationMarkdownFormatter prints recommendations as a markdown list
type RecommendationMarkdownFormatter struct{}

func (rmf *RecommendationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RecommendationList)
	if !ok {
		return "", fmt.Errorf("expected RecommendationList, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Recommendations\n\n")
	if result.FileName != "" {
		fmt.Fprintf(&output, "**Source:** %s  \n", result.FileName)
	}
	fmt.Fprintf(&output, "**Verdict:** %s\n\n", result.Verdict)
	for i, rec := range result.Recommendations {
		fmt.Fprintf(&output, "%d. %s\n", i+1, rec)
	}
	return output.String(), nil
}

func (rmf *RecommendationMarkdownFormatter) SupportedType() string {
	return "RecommendationList"
}

// DocumentTextFormatter prints extracted text under a short header
type DocumentTextFormatter struct{}

func (dtf *DocumentTextFormatter) Format(data any) (string, error) {
	doc, ok := data.(types.ExtractedDocument)
	if !ok {
		return "", fmt.Errorf("expected ExtractedDocument, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== %s (%s) ===\n", doc.FileName, documentFacts(doc))
	output.WriteString(doc.Text)
	output.WriteString("\n")
	return output.String(), nil
}

func (dtf *DocumentTextFormatter) SupportedType() string {
	return "ExtractedDocument"
}

// DocumentMarkdownFormatter prints extracted text in a fenced block
type DocumentMarkdownFormatter struct{}

func (dmf *DocumentMarkdownFormatter) Format(data any) (string, error) {
	doc, ok := data.(types.ExtractedDocument)
	if !ok {
		return "", fmt.Errorf("expected ExtractedDocument, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# %s\n\n_%s_\n\n```text\n%s\n```\n", doc.FileName, documentFacts(doc), doc.Text)
	return output.String(), nil
}

func (dmf *DocumentMarkdownFormatter) SupportedType() string {
	return "ExtractedDocument"
}

func documentFacts(doc types.ExtractedDocument) string {
	facts := []string{doc.Format}
	if doc.PageCount != nil {
		facts = append(facts, fmt.Sprintf("%d pages", *doc.PageCount))
	}
	if doc.FileSize != nil {
		facts = append(facts, utils.FormatFileSize(*doc.FileSize))
	}
	return strings.Join(facts, ", ")
}

// AnalysisTextFormatter prints an interview analysis for terminal review
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	in, ok := data.(types.ReportInput)
	if !ok {
		return "", fmt.Errorf("expected ReportInput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== INTERVIEW ANALYSIS ===\n\n")
	if in.Metadata.FileName != "" {
		fmt.Fprintf(&output, "Source: %s\n", in.Metadata.FileName)
	}
	s := in.Scores
	fmt.Fprintf(&output, "JD match: %.0f%%\nEngagement: %.0f%%\nRecruiter sentiment: %.1f/10\nFlow continuity: %.0f%%\n",
		s.JDMatchScore, s.CandidateEngagement, s.RecruiterSentiment, s.FlowContinuityScore)
	if len(in.TechnicalSkills) > 0 {
		fmt.Fprintf(&output, "Technical skills: %s\n", strings.Join(in.TechnicalSkills, ", "))
	}

	if in.HasJDRelevance() {
		output.WriteString("\n=== JD RELEVANCE ===\n")
		for i, ex := range in.JDRelevance.Exchanges {
			fmt.Fprintf(&output, "%d. %s (%.0f%%)\n", i+1, ex.Question, ex.Score)
		}
	}
	if in.HasSentiment() {
		output.WriteString("\n=== BEHAVIOR ===\n")
		fmt.Fprintf(&output, "Candidate: %s\nRecruiter: %s\n",
			in.Sentiment.CandidatePerformance, in.Sentiment.RecruiterEffectiveness)
	}
	if in.HasFlow() {
		output.WriteString("\n=== FLOW ===\n")
		for _, insight := range in.Flow.Insights {
			fmt.Fprintf(&output, "- %s\n", insight)
		}
		for _, issue := range in.Flow.Issues {
			fmt.Fprintf(&output, "[%s] %s\n", issue.Severity, issue.Text)
		}
	}
	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "ReportInput"
}

// AnalysisMarkdownFormatter prints an interview analysis as markdown
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	in, ok := data.(types.ReportInput)
	if !ok {
		return "", fmt.Errorf("expected ReportInput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Interview Analysis\n\n")
	if in.Metadata.FileName != "" {
		fmt.Fprintf(&output, "**Source:** %s\n\n", in.Metadata.FileName)
	}
	s := in.Scores
	output.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&output, "| JD match | %.0f%% |\n| Engagement | %.0f%% |\n| Recruiter sentiment | %.1f/10 |\n| Flow continuity | %.0f%% |\n",
		s.JDMatchScore, s.CandidateEngagement, s.RecruiterSentiment, s.FlowContinuityScore)

	if in.HasJDRelevance() {
		output.WriteString("\n## JD Relevance\n\n")
		for _, ex := range in.JDRelevance.Exchanges {
			fmt.Fprintf(&output, "- **%s** (%.0f%%)\n", ex.Question, ex.Score)
		}
	}
	if in.HasSentiment() {
		output.WriteString("\n## Behavior\n\n")
		fmt.Fprintf(&output, "### Candidate\n\n%s\n\n### Recruiter\n\n%s\n",
			in.Sentiment.CandidatePerformance, in.Sentiment.RecruiterEffectiveness)
	}
	if in.HasFlow() {
		output.WriteString("\n## Flow\n\n")
		for _, insight := range in.Flow.Insights {
			fmt.Fprintf(&output, "- %s\n", insight)
		}
		for _, issue := range in.Flow.Issues {
			fmt.Fprintf(&output, "- **%s:** %s\n", issue.Severity, issue.Text)
		}
	}
	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "ReportInput"
}
