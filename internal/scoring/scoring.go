// Package scoring holds the deterministic resume heuristics: job-description
// keyword match, interview likelihood and ATS readiness checks.
package scoring

import (
	"math"
	"regexp"
	"strings"
)

// MaxMissing caps the number of missing query tokens reported by JobMatch.
const MaxMissing = 20

// minQueryTokenLen is the shortest query token that counts toward a match.
const minQueryTokenLen = 3

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// MatchResult is the outcome of a keyword match.
type MatchResult struct {
	Ratio   float64  `json:"ratio"`
	Missing []string `json:"missing"`
}

// JobMatch reports the fraction of meaningful query tokens found in the resume
// and the first MaxMissing query tokens that were not found.
func JobMatch(resumeText, queryText string) MatchResult {
	resumeTokens := make(map[string]struct{})
	for _, tok := range tokenize(resumeText) {
		resumeTokens[tok] = struct{}{}
	}

	var query []string
	for _, tok := range tokenize(queryText) {
		if len(tok) >= minQueryTokenLen {
			query = append(query, tok)
		}
	}

	hits := 0
	missing := []string{}
	for _, tok := range query {
		if _, ok := resumeTokens[tok]; ok {
			hits++
			continue
		}
		missing = append(missing, tok)
	}

	res := MatchResult{Missing: missing}
	if len(query) > 0 {
		res.Ratio = float64(hits) / float64(len(query))
	}
	if len(res.Missing) > MaxMissing {
		res.Missing = res.Missing[:MaxMissing]
	}
	return res
}

// QueryText joins a target role and job description into one query.
func QueryText(role, jobDescription string) string {
	return role + "\n" + jobDescription
}

// tokenize lower-cases, folds punctuation to spaces, splits and dedupes
// keeping first-seen order.
func tokenize(text string) []string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// InterviewLikelihood blends the overall score, the keywords and achievements
// ratings and the match ratio into a 0-100 score.
func InterviewLikelihood(overallScore, keywords, achievements, matchRatio float64) int {
	o := clamp10(overallScore)
	k := clamp10(keywords)
	a := clamp10(achievements)
	m := clamp10(math.Round(finite(matchRatio) * 10))

	weighted := o*0.4 + k*0.25 + a*0.25 + m*0.1
	return int(math.Round(weighted * 10))
}

func clamp10(n float64) float64 {
	return math.Max(0, math.Min(10, finite(n)))
}

// finite maps NaN to zero; infinities are left for clamping.
func finite(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return n
}

// Check is one pass/fail ATS readiness test.
type Check struct {
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
}

var (
	emailPattern    = regexp.MustCompile(`\b[\w._%+-]+@[\w.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(?:\+?\d[\s-]?)?(?:\(?\d{3}\)?[\s-]?)?\d{3}[\s-]?\d{4}`)
	yearPattern     = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
	sectionsPattern = regexp.MustCompile(`(?i)(experience|education|skills)`)
)

// ATSChecks runs the four fixed checks, always in the same order.
func ATSChecks(resumeText string) []Check {
	return []Check{
		{Label: "Parsable email", Passed: emailPattern.MatchString(resumeText)},
		{Label: "Parsable phone", Passed: phonePattern.MatchString(resumeText)},
		{Label: "Dates present", Passed: yearPattern.MatchString(resumeText)},
		{Label: "Common sections present", Passed: sectionsPattern.MatchString(resumeText)},
	}
}
