package scoring

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func TestJobMatch(t *testing.T) {
	tests := []struct {
		name        string
		resume      string
		query       string
		wantRatio   float64
		wantMissing []string
	}{
		{
			name:        "partial match keeps query order",
			resume:      "Senior Go engineer. Kubernetes, PostgreSQL!",
			query:       "Go engineer\nKubernetes Terraform postgresql AWS",
			wantRatio:   3.0 / 5.0,
			wantMissing: []string{"terraform", "aws"},
		},
		{
			name:        "short tokens ignored",
			resume:      "nothing here",
			query:       "a go to be",
			wantRatio:   0,
			wantMissing: []string{},
		},
		{
			name:        "empty query",
			resume:      "anything",
			query:       "",
			wantRatio:   0,
			wantMissing: []string{},
		},
		{
			name:        "duplicates counted once",
			resume:      "react",
			query:       "React react REACT vue vue",
			wantRatio:   0.5,
			wantMissing: []string{"vue"},
		},
		{
			name:        "punctuation splits tokens",
			resume:      "node.js/typescript",
			query:       "node, typescript; c++",
			wantRatio:   1,
			wantMissing: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := JobMatch(tt.resume, tt.query)
			if math.Abs(got.Ratio-tt.wantRatio) > 1e-9 {
				t.Fatalf("ratio = %v, want %v", got.Ratio, tt.wantRatio)
			}
			if !reflect.DeepEqual(got.Missing, tt.wantMissing) {
				t.Fatalf("missing = %v, want %v", got.Missing, tt.wantMissing)
			}
		})
	}
}

func TestJobMatchMissingCapped(t *testing.T) {
	var words []string
	for i := 0; i < 30; i++ {
		words = append(words, "keyword"+strings.Repeat("x", i))
	}
	got := JobMatch("", strings.Join(words, " "))
	if len(got.Missing) != MaxMissing {
		t.Fatalf("len(missing) = %d, want %d", len(got.Missing), MaxMissing)
	}
	if got.Missing[0] != "keyword" {
		t.Fatalf("first missing = %q", got.Missing[0])
	}
}

func TestJobMatchMissingNeverInResume(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vocab := []string{"golang", "python", "docker", "kubernetes", "react", "sql", "aws", "gcp", "terraform", "kafka", "redis", "linux"}
	pick := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteString(vocab[rng.Intn(len(vocab))])
			b.WriteString(" ")
		}
		return b.String()
	}

	for i := 0; i < 200; i++ {
		resume, query := pick(rng.Intn(10)), pick(rng.Intn(40))
		got := JobMatch(resume, query)
		resumeSet := map[string]bool{}
		for _, tok := range tokenize(resume) {
			resumeSet[tok] = true
		}
		if len(got.Missing) > MaxMissing {
			t.Fatalf("missing too long: %d", len(got.Missing))
		}
		for _, m := range got.Missing {
			if resumeSet[m] {
				t.Fatalf("missing token %q present in resume %q", m, resume)
			}
		}
	}
}

func TestJobMatchMonotonic(t *testing.T) {
	resume := "go docker kubernetes postgres grpc"
	base := "docker terraform ansible"
	before := JobMatch(resume, base).Ratio
	for _, extra := range []string{"kubernetes", "postgres", "grpc"} {
		base = base + " " + extra
		after := JobMatch(resume, base).Ratio
		if after < before {
			t.Fatalf("adding %q decreased ratio %v -> %v", extra, before, after)
		}
		before = after
	}
}

func TestQueryText(t *testing.T) {
	if got := QueryText("Backend Engineer", "Go and SQL"); got != "Backend Engineer\nGo and SQL" {
		t.Fatalf("got %q", got)
	}
}

func TestInterviewLikelihood(t *testing.T) {
	tests := []struct {
		name                 string
		overall, kw, ach, jd float64
		want                 int
	}{
		{name: "all max", overall: 10, kw: 10, ach: 10, jd: 1, want: 100},
		{name: "all zero", want: 0},
		{name: "mock fixture no jd", overall: 5, kw: 8, ach: 6, jd: 0, want: 55},
		{name: "clamped high", overall: 42, kw: 99, ach: 11, jd: 3, want: 100},
		{name: "clamped low", overall: -5, kw: -1, ach: -100, jd: -2, want: 0},
		{name: "rounded jd", overall: 7, kw: 7, ach: 7, jd: 0.46, want: 68},
		{name: "nan", overall: math.NaN(), kw: 10, ach: 10, jd: math.NaN(), want: 50},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := InterviewLikelihood(tt.overall, tt.kw, tt.ach, tt.jd); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInterviewLikelihoodRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []float64{math.Inf(1), math.Inf(-1), math.NaN(), -1e9, 1e9}
	gen := func() float64 {
		if rng.Intn(5) == 0 {
			return values[rng.Intn(len(values))]
		}
		return rng.Float64()*40 - 20
	}
	for i := 0; i < 1000; i++ {
		got := InterviewLikelihood(gen(), gen(), gen(), gen())
		if got < 0 || got > 100 {
			t.Fatalf("likelihood out of range: %d", got)
		}
	}
}

func TestATSChecks(t *testing.T) {
	all := ATSChecks("Contact: a@b.com, (555) 123-4567, 2021-2024, Experience: ...")
	wantLabels := []string{"Parsable email", "Parsable phone", "Dates present", "Common sections present"}
	if len(all) != len(wantLabels) {
		t.Fatalf("expected %d checks, got %d", len(wantLabels), len(all))
	}
	for i, c := range all {
		if c.Label != wantLabels[i] {
			t.Fatalf("check %d label = %q, want %q", i, c.Label, wantLabels[i])
		}
		if !c.Passed {
			t.Fatalf("check %q failed", c.Label)
		}
	}

	for _, c := range ATSChecks("") {
		if c.Passed {
			t.Fatalf("check %q passed on empty text", c.Label)
		}
	}
}

func TestATSChecksIndividually(t *testing.T) {
	got := ATSChecks("SKILLS\nBorn 1850, graduated 2099")
	want := []bool{false, false, true, true}
	for i, c := range got {
		if c.Passed != want[i] {
			t.Fatalf("%s passed=%v, want %v", c.Label, c.Passed, want[i])
		}
	}
}
