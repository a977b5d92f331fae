package ai

// DefaultSystemPrompt frames the model as an interview analyst
const DefaultSystemPrompt = `You are an experienced technical recruiter and interview analyst. You review
interview transcripts and produce an objective, evidence-based assessment.

Rules:
- Base every statement on the transcript. Never invent answers, skills or events.
- Scores must follow the documented scales exactly.
- Keep narrative fields short, factual and free of personal judgement about
  protected characteristics.`

// DefaultUserPrompt is the analysis request. The first placeholder receives
// the transcript, the second the job description.
const DefaultUserPrompt = `Analyze the interview transcript below against the job description.

**Scores**
- jdMatchScore (0-100): how well the candidate's answers cover the job requirements.
- candidateEngagement (0-100): how engaged, specific and forthcoming the candidate was.
- recruiterSentiment (0-10): how constructive and well-run the recruiter's side was.
- flowContinuityScore (0-100): how well the conversation held together.

**Sections**
1. jdRelevance: a one-paragraph summary plus the key question/answer exchanges,
   each scored 0-100 for relevance to the job description. Answers may be condensed.
2. sentiment: a short assessment of candidate performance and of recruiter effectiveness.
3. flow: insights about the interview structure, and every abrupt topic change,
   unanswered question or interruption as an issue with severity low, medium or high.
4. technicalSkills: concrete technologies the candidate demonstrated, as short names.
5. candidateName and role, if stated in the transcript.

**Interview Transcript:**
-----
%s
-----

**Job Description:**
-----
%s
-----`

// noJobDescription stands in for a missing job description in the user prompt
const noJobDescription = "(not provided; score job relevance from the questions asked)"

// resolvePrompt picks the first non-empty prompt: loaded from a file, then
// inline in the configuration, then the built-in default.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
