package report

import (
	"fmt"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
)

// Threshold maps a metric value onto a card tone. Values at or above Good
// are a success, at or above Fair a warning, anything lower a danger.
type Threshold struct {
	Good float64
	Fair float64
}

// Tone classifies v
func (t Threshold) Tone(v float64) layout.Tone {
	switch {
	case v >= t.Good:
		return layout.ToneSuccess
	case v >= t.Fair:
		return layout.ToneWarning
	default:
		return layout.ToneDanger
	}
}

// Per-metric cut points. Recruiter sentiment is on a 0-10 scale, the rest
// are percentages.
var (
	JDMatchThreshold            = Threshold{Good: 70, Fair: 40}
	EngagementThreshold         = Threshold{Good: 70, Fair: 40}
	RecruiterSentimentThreshold = Threshold{Good: 7, Fair: 4}
	FlowContinuityThreshold     = Threshold{Good: 70, Fair: 40}
)

// SummaryCards builds the executive summary grid in display order
func SummaryCards(s types.Scores) []layout.Card {
	return []layout.Card{
		{Label: "JD Match", Value: percent(s.JDMatchScore), Tone: JDMatchThreshold.Tone(s.JDMatchScore)},
		{Label: "Candidate Engagement", Value: percent(s.CandidateEngagement), Tone: EngagementThreshold.Tone(s.CandidateEngagement)},
		{Label: "Recruiter Sentiment", Value: fmt.Sprintf("%.1f/10", s.RecruiterSentiment), Tone: RecruiterSentimentThreshold.Tone(s.RecruiterSentiment)},
		{Label: "Flow Continuity", Value: percent(s.FlowContinuityScore), Tone: FlowContinuityThreshold.Tone(s.FlowContinuityScore)},
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}
