// Package recommend turns interview scores into an ordered list of hiring
// recommendations. Selection is a pure function of its Signals.
package recommend

import (
	"fmt"
	"strings"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"
)

// Verdict is the overall hiring outcome
type Verdict string

const (
	VerdictStrong   Verdict = "strong"
	VerdictModerate Verdict = "moderate"
	VerdictCaution  Verdict = "caution"
	VerdictReject   Verdict = "not_recommended"
)

const (
	StrongRecommendation   = "Strong hire: experience closely matches the role and engagement stayed high. Proceed to the final round."
	ModerateRecommendation = "Potential fit: solid alignment with the role. Run a focused follow-up on the weaker areas before deciding."
	CautionRecommendation  = "Proceed with caution: only partial alignment with the requirements. Verify core skills before advancing."
	NotRecommended         = "Not recommended: limited alignment with the role requirements. Consider other candidates for this position."

	TechnicalAssessmentMissing = "Technical depth was not evidenced in the conversation. Schedule a dedicated technical assessment."
	TechnicalDesignCheck       = "Technical alignment is strong. A short system design discussion should confirm seniority."
	ScenarioExercise           = "Use a role-specific scenario exercise to validate practical judgment."

	LowEngagement  = "Engagement was low. Probe motivation and interest in the role in the next conversation."
	HighEngagement = "Highly engaged communicator. Consider a stakeholder-facing conversation in the next round."

	RecruiterToneReview = "Recruiter sentiment was low. Review interviewer tone and question framing for consistency."
	StructuredGuide     = "Interview flow was fragmented. Use a structured question guide to keep the conversation on track."

	NextStepStrong   = "Next step: schedule the final round and start reference checks."
	NextStepModerate = "Next step: arrange a follow-up interview focused on the identified gaps."
	NextStepCaution  = "Next step: request a work sample or take-home task before another interview."
	NextStepReject   = "Next step: send a courteous decline and keep the profile for future openings."

	CompensationNote  = "Compensation expectations came up. Confirm the salary range with the hiring manager before the next stage."
	DocumentationNote = "Record this assessment in the applicant tracking system for the hiring panel."
)

const maxSkillsNamed = 3

// TechnicalKeywords classify a job description as a technical role. Matching
// is a case-insensitive substring test, so "Engineering" and "APIs" count.
var TechnicalKeywords = []string{
	"software", "engineer", "developer", "programming", "python", "java",
	"javascript", "golang", "backend", "frontend", "devops", "data scientist",
	"machine learning", "cloud", "api", "database", "sql", "kubernetes",
}

var compensationKeywords = []string{"salary", "expectation"}

// Signals are the inputs of the recommendation cascade
type Signals struct {
	JDMatch              float64
	Engagement           float64
	RecruiterSentiment   float64
	FlowContinuity       float64
	TechnicalRole        bool
	TechnicalSkills      []string
	FlowBreaks           int
	MentionsCompensation bool
}

// SignalsFromInput derives the cascade inputs from an analysis
func SignalsFromInput(in types.ReportInput) Signals {
	return Signals{
		JDMatch:              in.Scores.JDMatchScore,
		Engagement:           in.Scores.CandidateEngagement,
		RecruiterSentiment:   in.Scores.RecruiterSentiment,
		FlowContinuity:       in.Scores.FlowContinuityScore,
		TechnicalRole:        IsTechnicalRole(in.JobDescription),
		TechnicalSkills:      in.TechnicalSkills,
		FlowBreaks:           in.FlowBreakCount(),
		MentionsCompensation: utils.ContainsAnyFold(in.Transcript, compensationKeywords),
	}
}

// IsTechnicalRole reports whether the job description contains a technical keyword
func IsTechnicalRole(jobDescription string) bool {
	return utils.ContainsAnyFold(jobDescription, TechnicalKeywords)
}

// Decide applies the hiring verdict ladder
func Decide(s Signals) Verdict {
	switch {
	case s.JDMatch >= 75 && s.Engagement >= 70:
		return VerdictStrong
	case s.JDMatch >= 60 && s.Engagement >= 50:
		return VerdictModerate
	case s.JDMatch >= 40:
		return VerdictCaution
	default:
		return VerdictReject
	}
}

// Select runs the fixed cascade. The order of the result is significant:
// verdict, technical assessment, communication, process, next steps,
// compensation and a closing reminder.
func Select(s Signals) []string {
	verdict := Decide(s)
	recs := []string{verdictText(verdict)}

	recs = append(recs, technicalGuidance(s))

	switch {
	case s.Engagement < 50:
		recs = append(recs, LowEngagement)
	case s.Engagement >= 80:
		recs = append(recs, HighEngagement)
	}

	if s.RecruiterSentiment < 5 {
		recs = append(recs, RecruiterToneReview)
	}
	if s.FlowContinuity < 60 || s.FlowBreaks > 2 {
		recs = append(recs, StructuredGuide)
	}

	recs = append(recs, nextStep(verdict))

	if s.MentionsCompensation {
		recs = append(recs, CompensationNote)
	}

	return append(recs, DocumentationNote)
}

func verdictText(v Verdict) string {
	switch v {
	case VerdictStrong:
		return StrongRecommendation
	case VerdictModerate:
		return ModerateRecommendation
	case VerdictCaution:
		return CautionRecommendation
	default:
		return NotRecommended
	}
}

func nextStep(v Verdict) string {
	switch v {
	case VerdictStrong:
		return NextStepStrong
	case VerdictModerate:
		return NextStepModerate
	case VerdictCaution:
		return NextStepCaution
	default:
		return NextStepReject
	}
}

func technicalGuidance(s Signals) string {
	if !s.TechnicalRole {
		return ScenarioExercise
	}

	var skills []string
	for _, skill := range s.TechnicalSkills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}

	switch {
	case len(skills) == 0:
		return TechnicalAssessmentMissing
	case s.JDMatch < 70:
		if len(skills) > maxSkillsNamed {
			skills = skills[:maxSkillsNamed]
		}
		return fmt.Sprintf("Run a hands-on exercise covering %s to confirm practical depth.", strings.Join(skills, ", "))
	default:
		return TechnicalDesignCheck
	}
}

// Top keeps the first n recommendations and truncates each to maxChars.
// Non-positive limits disable the corresponding cap.
func Top(list []string, n, maxChars int) []string {
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	out := make([]string, len(list))
	for i, rec := range list {
		out[i] = utils.Truncate(rec, maxChars)
	}
	return out
}

// Build derives, selects and caps the recommendations for an analysis
func Build(in types.ReportInput, n, maxChars int) types.RecommendationList {
	s := SignalsFromInput(in)
	return types.RecommendationList{
		FileName:        in.Metadata.FileName,
		TechnicalRole:   s.TechnicalRole,
		Verdict:         string(Decide(s)),
		Recommendations: Top(Select(s), n, maxChars),
	}
}
