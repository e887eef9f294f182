package analyses

// Result is a validated resume assessment.
type Result struct {
	Ratings         Ratings       `json:"ratings"`
	DeepAnalysis    DeepAnalysis  `json:"deepAnalysis"`
	Recommendations []string      `json:"recommendations"`
	Summary         string        `json:"summary"`
	OverallScore    float64       `json:"overallScore"`
	Resume          *ResumeSchema `json:"resume,omitempty"`
}

// Ratings are nominally 0-10; values are not range-checked.
type Ratings struct {
	Overall      float64 `json:"overall"`
	Content      float64 `json:"content"`
	Structure    float64 `json:"structure"`
	Formatting   float64 `json:"formatting"`
	Keywords     float64 `json:"keywords"`
	Achievements float64 `json:"achievements"`
}

type DeepAnalysis struct {
	Content      Section `json:"content"`
	Structure    Section `json:"structure"`
	Formatting   Section `json:"formatting"`
	Keywords     Section `json:"keywords"`
	Achievements Section `json:"achievements"`
}

type Section struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// ResumeSchema is the provider's normalized reconstruction of the resume.
type ResumeSchema struct {
	Basics     Basics       `json:"basics"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Projects   []Project    `json:"projects,omitempty"`
}

type Basics struct {
	Name     string `json:"name"`
	Headline string `json:"headline,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Links    []Link `json:"links,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Skill struct {
	Name     string   `json:"name"`
	Level    string   `json:"level,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

type Experience struct {
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Current   bool     `json:"current,omitempty"`
	Bullets   []string `json:"bullets"`
}

type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree,omitempty"`
	Area        string   `json:"area,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Details     []string `json:"details,omitempty"`
}

type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
	Link        string   `json:"link,omitempty"`
}
