package ai

import (
	"strings"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
)

// interviewAnalysis is the structured answer requested from the model
type interviewAnalysis struct {
	CandidateName   string                   `json:"candidateName"`
	Role            string                   `json:"role"`
	Scores          types.Scores             `json:"scores"`
	TechnicalSkills []string                 `json:"technicalSkills"`
	JDRelevance     *types.JDRelevance       `json:"jdRelevance"`
	Sentiment       *types.SentimentAnalysis `json:"sentiment"`
	Flow            *types.FlowAnalysis      `json:"flow"`
}

// toReportInput copies the model answer into a ReportInput that always
// passes validation: scores are clamped to their scales, blank entries are
// dropped and unknown severities are graded low.
func (a interviewAnalysis) toReportInput(in types.AnalyzeInterviewInput) *types.ReportInput {
	out := &types.ReportInput{
		Metadata: types.InterviewMetadata{
			FileName:      in.FileName,
			CandidateName: strings.TrimSpace(a.CandidateName),
			Role:          strings.TrimSpace(a.Role),
		},
		Scores: types.Scores{
			JDMatchScore:        clamp(a.Scores.JDMatchScore, 100),
			CandidateEngagement: clamp(a.Scores.CandidateEngagement, 100),
			RecruiterSentiment:  clamp(a.Scores.RecruiterSentiment, 10),
			FlowContinuityScore: clamp(a.Scores.FlowContinuityScore, 100),
		},
		JobDescription:  in.JobDescription,
		Transcript:      in.Transcript,
		TechnicalSkills: nonBlank(a.TechnicalSkills),
	}

	if r := a.JDRelevance; r != nil {
		rel := &types.JDRelevance{Summary: strings.TrimSpace(r.Summary)}
		for _, ex := range r.Exchanges {
			if strings.TrimSpace(ex.Question) == "" {
				continue
			}
			rel.Exchanges = append(rel.Exchanges, types.QAExchange{
				Question: strings.TrimSpace(ex.Question),
				Answer:   strings.TrimSpace(ex.Answer),
				Score:    clamp(ex.Score, 100),
			})
		}
		if rel.Summary != "" || len(rel.Exchanges) > 0 {
			out.JDRelevance = rel
		}
	}

	if s := a.Sentiment; s != nil {
		sent := &types.SentimentAnalysis{
			CandidatePerformance:   strings.TrimSpace(s.CandidatePerformance),
			RecruiterEffectiveness: strings.TrimSpace(s.RecruiterEffectiveness),
		}
		if sent.CandidatePerformance != "" || sent.RecruiterEffectiveness != "" {
			out.Sentiment = sent
		}
	}

	if f := a.Flow; f != nil {
		flow := &types.FlowAnalysis{Insights: nonBlank(f.Insights)}
		for _, issue := range f.Issues {
			text := strings.TrimSpace(issue.Text)
			if text == "" {
				continue
			}
			flow.Issues = append(flow.Issues, types.FlowIssue{Text: text, Severity: normalizeSeverity(issue.Severity)})
		}
		if len(flow.Insights) > 0 || len(flow.Issues) > 0 {
			out.Flow = flow
		}
	}

	return out
}

func normalizeSeverity(s types.Severity) types.Severity {
	switch sev := types.Severity(strings.ToLower(strings.TrimSpace(string(s)))); sev {
	case types.SeverityLow, types.SeverityMedium, types.SeverityHigh:
		return sev
	}
	return types.SeverityLow
}

func clamp(v, upper float64) float64 {
	return max(0, min(v, upper))
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
