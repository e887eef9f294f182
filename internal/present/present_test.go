package present

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"enhanceme/internal/analyses"
	"enhanceme/internal/scoring"
)

func TestRenderReportMock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, analyses.MockResult()))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "Resume Rating: 5 / 10 (weak)\n\n[MOCK-DATA]"), out)
	require.Contains(t, out, "Content Quality  [########..] 8/10 (good)")
	require.Contains(t, out, "Structure        [######....] 6/10 (fair)")
	require.Contains(t, out, "\nContent Analysis\n  Strengths\n    + Clear and concise job descriptions")
	require.Contains(t, out, "  Areas for Improvement\n    - Add more quantifiable achievements")
	require.Contains(t, out, "Key Recommendations\n  1. Add a professional summary")
	require.Contains(t, out, "  6. Add any relevant certifications or professional development\n")
}

func TestRenderReportOmitsEmptySections(t *testing.T) {
	res := analyses.Result{
		Ratings:      analyses.Ratings{Content: 9.5},
		Summary:      "Short.",
		OverallScore: 8.5,
		DeepAnalysis: analyses.DeepAnalysis{
			Keywords: analyses.Section{Improvements: []string{"Add Go"}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, res))
	out := buf.String()

	require.Contains(t, out, "Resume Rating: 8.5 / 10 (good)")
	require.Contains(t, out, "Content Quality  [##########] 9.5/10 (good)")
	require.NotContains(t, out, "Content Analysis")
	require.Contains(t, out, "Keywords Analysis\n  Areas for Improvement\n    - Add Go")
	require.NotContains(t, out, "Strengths")
	require.NotContains(t, out, "Key Recommendations")
}

func TestRenderResumeMock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResume(&buf, *analyses.MockResult().Resume))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "Alex Candidate\nFull-Stack Developer\nalex@example.com • +1 (555) 555-5555 • Remote\nGitHub: https://github.com/example\n"), out)
	require.Contains(t, out, "\nSkills\nFrontend: React, Next.js, TypeScript\nBackend: Node.js, Express, PostgreSQL\n")
	require.Contains(t, out, "\nExperience\nSoftware Engineer — Acme Corp\nRemote • 2022-01 – 2024-03\n  • Built features")
	require.Contains(t, out, "\nProjects\nPortfolio (https://example.com)\nPersonal portfolio with blog\n")
	require.Contains(t, out, "\nEducation\nState University\nB.Sc., Computer Science\n2018-08 – 2022-05\n  • GPA 3.7/4.0\n")
}

func TestRenderResumeCurrentRoleAndEmptySections(t *testing.T) {
	resume := analyses.ResumeSchema{
		Basics: analyses.Basics{Name: "Jane Doe", Phone: "555-123-4567"},
		Experience: []analyses.Experience{
			{Company: "Globex", Role: "Engineer", StartDate: "2023-02", Current: true},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderResume(&buf, resume))
	out := buf.String()

	require.Equal(t, "Jane Doe\n555-123-4567\n\nExperience\nEngineer — Globex\n2023-02 – Present\n", out)
}

func TestRenderHeuristics(t *testing.T) {
	likelihood := 60
	missing := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		missing = append(missing, "kw"+string(rune('a'+i)))
	}
	rep := scoring.Report{
		Match:               scoring.MatchResult{Ratio: 0.456, Missing: missing},
		MatchPercent:        46,
		InterviewLikelihood: &likelihood,
		ATSChecks:           scoring.ATSChecks("jane@example.com"),
	}
	var buf bytes.Buffer
	require.NoError(t, RenderHeuristics(&buf, rep))
	out := buf.String()

	require.Contains(t, out, "Match score: 46%\nInterview likelihood: 60%\n")
	require.Contains(t, out, "Potential keyword gaps: kwa, kwb, kwc, kwd, kwe, kwf, kwg, kwh, kwi, kwj, kwk, kwl\n")
	require.NotContains(t, out, "kwm")
	require.Contains(t, out, "  [x] Parsable email\n  [ ] Parsable phone\n  [ ] Dates present\n  [ ] Common sections present\n")
}

func TestRenderHeuristicsWithoutAnalysis(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHeuristics(&buf, scoring.Evaluate("Jane", "", "", nil)))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Match score: 0%\n\nATS Checks\n"), out)
	require.NotContains(t, out, "Interview likelihood")
	require.NotContains(t, out, "keyword gaps")
}
