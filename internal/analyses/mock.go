package analyses

// MockResult returns the canned analysis served in mock mode.
func MockResult() Result {
	return Result{
		Ratings: Ratings{
			Overall:      7,
			Content:      8,
			Structure:    6,
			Formatting:   7,
			Keywords:     8,
			Achievements: 6,
		},
		DeepAnalysis: DeepAnalysis{
			Content: Section{
				Strengths: []string{
					"Clear and concise job descriptions",
					"Good use of action verbs",
					"Relevant experience highlighted",
				},
				Improvements: []string{
					"Add more quantifiable achievements",
					"Include specific metrics and results",
					"Expand on technical skills",
				},
			},
			Structure: Section{
				Strengths: []string{
					"Logical flow from experience to education",
					"Consistent formatting throughout",
				},
				Improvements: []string{
					"Consider adding a professional summary",
					"Reorganize sections for better impact",
					"Add more white space for readability",
				},
			},
			Formatting: Section{
				Strengths: []string{
					"Clean, professional layout",
					"Consistent font usage",
				},
				Improvements: []string{
					"Improve bullet point formatting",
					"Add section dividers",
					"Optimize for ATS systems",
				},
			},
			Keywords: Section{
				Strengths: []string{
					"Industry-relevant terminology used",
					"Technical skills clearly listed",
				},
				Improvements: []string{
					"Include more job-specific keywords",
					"Add soft skills section",
					"Use variations of key terms",
				},
			},
			Achievements: Section{
				Strengths: []string{
					"Some quantified results included",
				},
				Improvements: []string{
					"Add more specific metrics",
					"Include percentage improvements",
					"Highlight cost savings or revenue generated",
				},
			},
		},
		Recommendations: []string{
			"Add a professional summary at the top to immediately capture attention",
			"Quantify your achievements with specific numbers and percentages",
			"Include more industry-specific keywords to pass ATS screening",
			"Consider adding a skills section with both technical and soft skills",
			"Use bullet points consistently and keep them concise",
			"Add any relevant certifications or professional development",
		},
		Summary:      "[MOCK-DATA] Your resume shows good potential with clear experience and relevant skills. The main areas for improvement are adding more quantifiable achievements and optimizing for ATS systems. With some strategic enhancements, this resume will be much more competitive.",
		OverallScore: 5,
		Resume: &ResumeSchema{
			Basics: Basics{
				Name:     "Alex Candidate",
				Headline: "Full-Stack Developer",
				Email:    "alex@example.com",
				Phone:    "+1 (555) 555-5555",
				Location: "Remote",
				Links:    []Link{{Label: "GitHub", URL: "https://github.com/example"}},
				Summary:  "Developer with 4+ years building web apps with React, Node.js, and cloud.",
			},
			Skills: []Skill{
				{Name: "Frontend", Keywords: []string{"React", "Next.js", "TypeScript"}},
				{Name: "Backend", Keywords: []string{"Node.js", "Express", "PostgreSQL"}},
			},
			Experience: []Experience{
				{
					Company:   "Acme Corp",
					Role:      "Software Engineer",
					Location:  "Remote",
					StartDate: "2022-01",
					EndDate:   "2024-03",
					Current:   false,
					Bullets: []string{
						"Built features in React/Next.js improving conversion by 12%",
						"Led migration to PostgreSQL with zero downtime",
					},
				},
			},
			Education: []Education{
				{
					Institution: "State University",
					Degree:      "B.Sc.",
					Area:        "Computer Science",
					StartDate:   "2018-08",
					EndDate:     "2022-05",
					Details:     []string{"GPA 3.7/4.0"},
				},
			},
			Projects: []Project{
				{
					Name:        "Portfolio",
					Description: "Personal portfolio with blog",
					Bullets:     []string{"SEO-optimized, responsive design"},
					Link:        "https://example.com",
				},
			},
		},
	}
}
