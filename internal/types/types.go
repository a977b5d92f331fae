package types

import (
	"strings"
	"time"
)

// Severity grades a flow issue found in the interview structure
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AtLeastMedium reports whether the issue is serious enough to be printed
func (s Severity) AtLeastMedium() bool {
	switch Severity(strings.ToLower(string(s))) {
	case SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// InterviewMetadata identifies the recording the analysis was produced from
type InterviewMetadata struct {
	FileName      string    `json:"fileName" yaml:"fileName"`
	CandidateName string    `json:"candidateName,omitempty" yaml:"candidateName,omitempty"`
	Role          string    `json:"role,omitempty" yaml:"role,omitempty"`
	RecordedAt    time.Time `json:"recordedAt,omitzero" yaml:"recordedAt,omitempty"`
}

// Scores holds the four headline numbers. Missing values decode as 0.
type Scores struct {
	JDMatchScore        float64 `json:"jdMatchScore" yaml:"jdMatchScore" validate:"gte=0,lte=100"`
	CandidateEngagement float64 `json:"candidateEngagement" yaml:"candidateEngagement" validate:"gte=0,lte=100"`
	RecruiterSentiment  float64 `json:"recruiterSentiment" yaml:"recruiterSentiment" validate:"gte=0,lte=10"`
	FlowContinuityScore float64 `json:"flowContinuityScore" yaml:"flowContinuityScore" validate:"gte=0,lte=100"`
}

// QAExchange is one question/answer pair scored for relevance to the job description
type QAExchange struct {
	Question string  `json:"question" yaml:"question" validate:"required"`
	Answer   string  `json:"answer,omitempty" yaml:"answer,omitempty"`
	Score    float64 `json:"score" yaml:"score" validate:"gte=0,lte=100"`
}

// JDRelevance is the optional job-description alignment sub-analysis
type JDRelevance struct {
	Summary   string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Exchanges []QAExchange `json:"exchanges" yaml:"exchanges" validate:"dive"`
}

// SentimentAnalysis is the optional behavioral sub-analysis
type SentimentAnalysis struct {
	CandidatePerformance   string `json:"candidatePerformance,omitempty" yaml:"candidatePerformance,omitempty"`
	RecruiterEffectiveness string `json:"recruiterEffectiveness,omitempty" yaml:"recruiterEffectiveness,omitempty"`
}

// FlowIssue is a break in the interview structure
type FlowIssue struct {
	Text     string   `json:"text" yaml:"text" validate:"required"`
	Severity Severity `json:"severity" yaml:"severity" validate:"oneof=low medium high LOW MEDIUM HIGH Low Medium High"`
}

// FlowAnalysis is the optional interview structure sub-analysis
type FlowAnalysis struct {
	Insights []string    `json:"insights,omitempty" yaml:"insights,omitempty"`
	Issues   []FlowIssue `json:"issues,omitempty" yaml:"issues,omitempty" validate:"dive"`
}

// ReportInput is the read-only analysis payload rendered into a report.
// Nil sub-analyses are omitted from the document.
type ReportInput struct {
	Metadata        InterviewMetadata  `json:"metadata" yaml:"metadata"`
	Scores          Scores             `json:"scores" yaml:"scores"`
	JobDescription  string             `json:"jobDescription,omitempty" yaml:"jobDescription,omitempty"`
	Transcript      string             `json:"transcript,omitempty" yaml:"transcript,omitempty"`
	TechnicalSkills []string           `json:"technicalSkills,omitempty" yaml:"technicalSkills,omitempty"`
	JDRelevance     *JDRelevance       `json:"jdRelevance,omitempty" yaml:"jdRelevance,omitempty"`
	Sentiment       *SentimentAnalysis `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	Flow            *FlowAnalysis      `json:"flow,omitempty" yaml:"flow,omitempty"`
}

// HasSentiment reports whether the behavioral section has anything to print
func (in ReportInput) HasSentiment() bool {
	return in.Sentiment != nil &&
		(strings.TrimSpace(in.Sentiment.CandidatePerformance) != "" ||
			strings.TrimSpace(in.Sentiment.RecruiterEffectiveness) != "")
}

// HasJDRelevance reports whether the job-description section has anything to print
func (in ReportInput) HasJDRelevance() bool {
	return in.JDRelevance != nil &&
		(len(in.JDRelevance.Exchanges) > 0 || strings.TrimSpace(in.JDRelevance.Summary) != "")
}

// HasFlow reports whether the flow section has anything to print
func (in ReportInput) HasFlow() bool {
	return in.Flow != nil && (len(in.Flow.Insights) > 0 || len(in.Flow.Issues) > 0)
}

// FlowBreakCount is the number of recorded flow issues of any severity
func (in ReportInput) FlowBreakCount() int {
	if in.Flow == nil {
		return 0
	}
	return len(in.Flow.Issues)
}

// ExtractedDocument is the plain text pulled out of an uploaded file
type ExtractedDocument struct {
	FileName  string `json:"fileName"`
	Format    string `json:"format"`
	Text      string `json:"text"`
	PageCount *int   `json:"pageCount,omitempty"`
	FileSize  *int64 `json:"fileSize,omitempty"`
}

// RecommendationList is the prioritized guidance printed at the end of a report
type RecommendationList struct {
	FileName        string   `json:"fileName,omitempty"`
	TechnicalRole   bool     `json:"technicalRole"`
	Verdict         string   `json:"verdict"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeInterviewInput is the input for AI-backed interview analysis
type AnalyzeInterviewInput struct {
	FileName       string `json:"fileName"`
	Transcript     string `json:"transcript"`
	JobDescription string `json:"jobDescription,omitempty"`
}
