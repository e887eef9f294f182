// Package present renders analyses, rebuilt resumes and heuristics as plain text.
package present

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/template"

	"enhanceme/internal/analyses"
	"enhanceme/internal/scoring"
)

// MaxKeywordGaps caps the missing keywords shown to the user.
const MaxKeywordGaps = 12

const barWidth = 10

var funcs = template.FuncMap{
	"num":    formatNumber,
	"bar":    ratingBar,
	"band":   ratingBand,
	"inc":    func(i int) int { return i + 1 },
	"join":   joinNonEmpty,
	"dates":  dateRange,
	"gaps":   keywordGaps,
	"passed": checkMark,
}

var reportTmpl = template.Must(template.New("report").Funcs(funcs).Parse(`Resume Rating: {{num .OverallScore}} / 10 ({{band .OverallScore}})
{{- if .Summary}}

{{.Summary}}
{{- end}}

Detailed Ratings
{{- range .Ratings}}
  {{printf "%-16s" .Label}} {{bar .Value}} {{num .Value}}/10 ({{band .Value}})
{{- end}}
{{- range .Sections}}
{{- if or .Section.Strengths .Section.Improvements}}

{{.Title}}
{{- if .Section.Strengths}}
  Strengths
{{- range .Section.Strengths}}
    + {{.}}
{{- end}}
{{- end}}
{{- if .Section.Improvements}}
  Areas for Improvement
{{- range .Section.Improvements}}
    - {{.}}
{{- end}}
{{- end}}
{{- end}}
{{- end}}
{{- if .Recommendations}}

Key Recommendations
{{- range $i, $r := .Recommendations}}
  {{inc $i}}. {{$r}}
{{- end}}
{{- end}}
`))

var resumeTmpl = template.Must(template.New("resume").Funcs(funcs).Parse(`{{with .Basics}}{{.Name}}
{{- if .Headline}}
{{.Headline}}
{{- end}}
{{- with join " • " .Email .Phone .Location}}
{{.}}
{{- end}}
{{- range .Links}}
{{.Label}}: {{.URL}}
{{- end}}
{{- if .Summary}}

Summary
{{.Summary}}
{{- end}}
{{- end}}
{{- if .Skills}}

Skills
{{- range .Skills}}
{{.Name}}: {{join ", " .Keywords}}
{{- end}}
{{- end}}
{{- if .Experience}}

Experience
{{- range .Experience}}
{{.Role}} — {{.Company}}
{{- with join " • " .Location (dates .StartDate .EndDate .Current)}}
{{.}}
{{- end}}
{{- range .Bullets}}
  • {{.}}
{{- end}}
{{- end}}
{{- end}}
{{- if .Projects}}

Projects
{{- range .Projects}}
{{.Name}}{{if .Link}} ({{.Link}}){{end}}
{{- if .Description}}
{{.Description}}
{{- end}}
{{- range .Bullets}}
  • {{.}}
{{- end}}
{{- end}}
{{- end}}
{{- if .Education}}

Education
{{- range .Education}}
{{.Institution}}
{{- with join ", " .Degree .Area}}
{{.}}
{{- end}}
{{- with dates .StartDate .EndDate false}}
{{.}}
{{- end}}
{{- range .Details}}
  • {{.}}
{{- end}}
{{- end}}
{{- end}}
`))

var heuristicsTmpl = template.Must(template.New("heuristics").Funcs(funcs).Parse(`Match score: {{.MatchPercent}}%
{{- with .InterviewLikelihood}}
Interview likelihood: {{.}}%
{{- end}}
{{- with gaps .Match.Missing}}
Potential keyword gaps: {{join ", " .}}
{{- end}}

ATS Checks
{{- range .ATSChecks}}
  [{{passed .Passed}}] {{.Label}}
{{- end}}
`))

type ratingRow struct {
	Label string
	Value float64
}

type sectionBlock struct {
	Title   string
	Section analyses.Section
}

type reportView struct {
	OverallScore    float64
	Summary         string
	Ratings         []ratingRow
	Sections        []sectionBlock
	Recommendations []string
}

// RenderReport writes the analysis report.
func RenderReport(w io.Writer, result analyses.Result) error {
	view := reportView{
		OverallScore: result.OverallScore,
		Summary:      result.Summary,
		Ratings: []ratingRow{
			{Label: "Content Quality", Value: result.Ratings.Content},
			{Label: "Structure", Value: result.Ratings.Structure},
			{Label: "Formatting", Value: result.Ratings.Formatting},
			{Label: "Keywords", Value: result.Ratings.Keywords},
			{Label: "Achievements", Value: result.Ratings.Achievements},
		},
		Sections: []sectionBlock{
			{Title: "Content Analysis", Section: result.DeepAnalysis.Content},
			{Title: "Structure Analysis", Section: result.DeepAnalysis.Structure},
			{Title: "Formatting Analysis", Section: result.DeepAnalysis.Formatting},
			{Title: "Keywords Analysis", Section: result.DeepAnalysis.Keywords},
			{Title: "Achievements Analysis", Section: result.DeepAnalysis.Achievements},
		},
		Recommendations: result.Recommendations,
	}
	return reportTmpl.Execute(w, view)
}

// RenderResume writes the rebuilt resume. Empty sections are omitted.
func RenderResume(w io.Writer, resume analyses.ResumeSchema) error {
	return resumeTmpl.Execute(w, resume)
}

// RenderHeuristics writes the match score, interview likelihood, keyword gaps and ATS checks.
func RenderHeuristics(w io.Writer, rep scoring.Report) error {
	return heuristicsTmpl.Execute(w, rep)
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ratingBar draws value/10 as a fixed-width bar, clamped to [0,10].
func ratingBar(v float64) string {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	filled := int(math.Round(math.Min(v, 10) / 10 * barWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

func ratingBand(v float64) string {
	switch {
	case v >= 8:
		return "good"
	case v >= 6:
		return "fair"
	default:
		return "weak"
	}
}

func joinNonEmpty(sep string, parts ...any) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				out = append(out, v)
			}
		case []string:
			for _, s := range v {
				if strings.TrimSpace(s) != "" {
					out = append(out, s)
				}
			}
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return strings.Join(out, sep)
}

func dateRange(start, end string, current bool) string {
	if end == "" && current {
		end = "Present"
	}
	return joinNonEmpty(" – ", start, end)
}

func keywordGaps(missing []string) []string {
	if len(missing) > MaxKeywordGaps {
		return missing[:MaxKeywordGaps]
	}
	return missing
}

func checkMark(passed bool) string {
	if passed {
		return "x"
	}
	return " "
}
