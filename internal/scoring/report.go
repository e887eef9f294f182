package scoring

import (
	"math"
	"strings"

	"enhanceme/internal/analyses"
)

// Report bundles every heuristic for one resume and one target role.
type Report struct {
	Match               MatchResult `json:"match"`
	MatchPercent        int         `json:"matchPercent"`
	InterviewLikelihood *int        `json:"interviewLikelihood,omitempty"`
	ATSChecks           []Check     `json:"atsChecks"`
}

// Evaluate composes the heuristics. A blank job description yields a zero
// match; interview likelihood is only present when a result is available.
func Evaluate(resumeText, role, jobDescription string, result *analyses.Result) Report {
	match := MatchResult{Missing: []string{}}
	if strings.TrimSpace(jobDescription) != "" {
		match = JobMatch(resumeText, QueryText(role, jobDescription))
	}

	rep := Report{
		Match:        match,
		MatchPercent: int(math.Round(match.Ratio * 100)),
		ATSChecks:    ATSChecks(resumeText),
	}
	if result != nil {
		likelihood := InterviewLikelihood(result.OverallScore, result.Ratings.Keywords, result.Ratings.Achievements, match.Ratio)
		rep.InterviewLikelihood = &likelihood
	}
	return rep
}
