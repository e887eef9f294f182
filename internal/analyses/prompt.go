package analyses

const systemMessage = "You are an expert resume analyst. You must respond with valid JSON only, no markdown formatting, no code blocks, no explanatory text."

const promptPreamble = `Analyze the following resume and return ONLY valid JSON with both analysis and a normalized resume structure (no markdown, no prose).

Required JSON schema (example values allowed):
{
  "ratings": { "overall": 7.5, "content": 7, "structure": 8, "formatting": 6, "keywords": 7, "achievements": 7 },
  "deepAnalysis": {
    "content": { "strengths": ["..."], "improvements": ["..."] },
    "structure": { "strengths": ["..."], "improvements": ["..."] },
    "formatting": { "strengths": ["..."], "improvements": ["..."] },
    "keywords": { "strengths": ["..."], "improvements": ["..."] },
    "achievements": { "strengths": ["..."], "improvements": ["..."] }
  },
  "recommendations": ["..."],
  "summary": "...",
  "overallScore": 7.5,
  "resume": {
    "basics": { "name": "...", "headline": "...", "email": "...", "phone": "...", "location": "...", "links": [{"label":"GitHub","url":"https://..."}], "summary": "..." },
    "skills": [{ "name": "Backend", "keywords": ["Node.js","PostgreSQL"] }],
    "experience": [
      { "company": "...", "role": "...", "location": "...", "startDate": "2022-01", "endDate": "2024-03", "current": false, "bullets": ["..."] }
    ],
    "education": [
      { "institution": "...", "degree": "...", "area": "...", "startDate": "2018-08", "endDate": "2022-05", "details": ["..."] }
    ],
    "projects": [{ "name": "...", "description": "...", "bullets": ["..."], "link": "https://..." }]
  }
}

Respond with ONLY the JSON object.

Resume Text:
`

// Generation parameters for the analysis call.
const (
	maxTokens   = 3000
	temperature = 0.3
)

func buildPrompt(resumeText string) string {
	return promptPreamble + resumeText
}
