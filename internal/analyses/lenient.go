package analyses

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Provider output is only checked at the top level. Nested values are
// decoded best-effort: numeric strings become numbers, a lone string
// where a list is expected becomes a one-item list, and anything else
// of the wrong type is left zero.

type fields map[string]json.RawMessage

// objectFields returns nil when data is not a JSON object.
func objectFields(data []byte) fields {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	return f
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func (f fields) num(key string) float64 {
	raw := f[key]
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return n
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}
	return 0
}

func (f fields) str(key string) string { return scalarString(f[key]) }

func (f fields) strs(key string) []string { return stringList(f[key]) }

func (f fields) flag(key string) bool {
	raw := f[key]
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		b, _ = strconv.ParseBool(strings.TrimSpace(s))
	}
	return b
}

func scalarString(raw json.RawMessage) string {
	s, _ := scalar(raw)
	return s
}

// scalar renders a JSON string, number or bool as text.
func scalar(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String(), true
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return strconv.FormatBool(b), true
	}
	return "", false
}

func stringList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) == nil {
		if items == nil {
			return nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := scalar(item); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if s := scalarString(raw); s != "" {
		return []string{s}
	}
	return nil
}

// objectList decodes a list of objects; a single object counts as a
// one-item list and non-object entries are skipped.
func objectList[T any](raw json.RawMessage, decode func(fields) T) []T {
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		if f := objectFields(raw); f != nil {
			return []T{decode(f)}
		}
		return nil
	}
	if items == nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if f := objectFields(item); f != nil {
			out = append(out, decode(f))
		}
	}
	return out
}

// UnmarshalJSON decodes a Result, tolerating nested type mismatches.
func (r *Result) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	f := objectFields(data)
	if f == nil {
		return errors.New("analysis result must be a JSON object")
	}
	*r = Result{
		Ratings:         ratingsFrom(objectFields(f["ratings"])),
		Recommendations: f.strs("recommendations"),
		Summary:         f.str("summary"),
		OverallScore:    f.num("overallScore"),
	}
	deep := objectFields(f["deepAnalysis"])
	r.DeepAnalysis = DeepAnalysis{
		Content:      sectionFrom(objectFields(deep["content"])),
		Structure:    sectionFrom(objectFields(deep["structure"])),
		Formatting:   sectionFrom(objectFields(deep["formatting"])),
		Keywords:     sectionFrom(objectFields(deep["keywords"])),
		Achievements: sectionFrom(objectFields(deep["achievements"])),
	}
	if resume := objectFields(f["resume"]); resume != nil {
		rs := resumeFrom(resume)
		r.Resume = &rs
	}
	return nil
}

// UnmarshalJSON decodes Ratings, accepting numeric strings.
func (r *Ratings) UnmarshalJSON(data []byte) error {
	if !isNull(data) {
		*r = ratingsFrom(objectFields(data))
	}
	return nil
}

// UnmarshalJSON decodes a Section, accepting a lone string for either list.
func (s *Section) UnmarshalJSON(data []byte) error {
	if !isNull(data) {
		*s = sectionFrom(objectFields(data))
	}
	return nil
}

// UnmarshalJSON decodes a ResumeSchema best-effort.
func (rs *ResumeSchema) UnmarshalJSON(data []byte) error {
	if !isNull(data) {
		*rs = resumeFrom(objectFields(data))
	}
	return nil
}

func ratingsFrom(f fields) Ratings {
	return Ratings{
		Overall:      f.num("overall"),
		Content:      f.num("content"),
		Structure:    f.num("structure"),
		Formatting:   f.num("formatting"),
		Keywords:     f.num("keywords"),
		Achievements: f.num("achievements"),
	}
}

func sectionFrom(f fields) Section {
	return Section{
		Strengths:    f.strs("strengths"),
		Improvements: f.strs("improvements"),
	}
}

func resumeFrom(f fields) ResumeSchema {
	b := objectFields(f["basics"])
	return ResumeSchema{
		Basics: Basics{
			Name:     b.str("name"),
			Headline: b.str("headline"),
			Email:    b.str("email"),
			Phone:    b.str("phone"),
			Location: b.str("location"),
			Links: objectList(b["links"], func(l fields) Link {
				return Link{Label: l.str("label"), URL: l.str("url")}
			}),
			Summary: b.str("summary"),
		},
		Skills: objectList(f["skills"], func(s fields) Skill {
			return Skill{Name: s.str("name"), Level: s.str("level"), Keywords: s.strs("keywords")}
		}),
		Experience: objectList(f["experience"], func(e fields) Experience {
			return Experience{
				Company:   e.str("company"),
				Role:      e.str("role"),
				Location:  e.str("location"),
				StartDate: e.str("startDate"),
				EndDate:   e.str("endDate"),
				Current:   e.flag("current"),
				Bullets:   e.strs("bullets"),
			}
		}),
		Education: objectList(f["education"], func(e fields) Education {
			return Education{
				Institution: e.str("institution"),
				Degree:      e.str("degree"),
				Area:        e.str("area"),
				StartDate:   e.str("startDate"),
				EndDate:     e.str("endDate"),
				Details:     e.strs("details"),
			}
		}),
		Projects: objectList(f["projects"], func(p fields) Project {
			return Project{
				Name:        p.str("name"),
				Description: p.str("description"),
				Bullets:     p.strs("bullets"),
				Link:        p.str("link"),
			}
		}),
	}
}
