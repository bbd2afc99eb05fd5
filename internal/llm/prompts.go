package llm

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

const (
	// MaxJobDescriptionRunes caps the job description embedded in a prompt.
	MaxJobDescriptionRunes = 4000
	// MaxResumeRunes caps the extracted resume text embedded in a prompt.
	MaxResumeRunes = 30000
	// MaxFieldRunes caps the roadmap field name.
	MaxFieldRunes = 200
)

var (
	//go:embed prompts/analysis.txt
	analysisTemplate string
	//go:embed prompts/roadmap.txt
	roadmapTemplate string

	analysisTmpl = template.Must(template.New("analysis").Parse(analysisTemplate))
	roadmapTmpl  = template.Must(template.New("roadmap").Parse(roadmapTemplate))
)

// AnalysisPromptInput carries everything the analysis prompt embeds.
type AnalysisPromptInput struct {
	ResumeText       string
	JobDescription   string
	JobTitle         string
	CompanyName      string
	ExtractionMethod string
}

// BuildAnalysisPrompt renders the analysis prompt. Output depends only on input.
func BuildAnalysisPrompt(in AnalysisPromptInput) string {
	in.ResumeText = Truncate(strings.TrimSpace(in.ResumeText), MaxResumeRunes)
	in.JobDescription = Truncate(in.JobDescription, MaxJobDescriptionRunes)
	if in.ResumeText == "" {
		in.ResumeText = "(no text could be extracted from the resume)"
	}
	return render(analysisTmpl, in)
}

// BuildRoadmapPrompt renders the roadmap prompt for a field or skill.
func BuildRoadmapPrompt(field string) string {
	return render(roadmapTmpl, struct{ Field string }{Field: CleanField(field)})
}

// CleanField collapses whitespace in a roadmap field and caps its length.
func CleanField(field string) string {
	return Truncate(strings.Join(strings.Fields(field), " "), MaxFieldRunes)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	// Templates only reference string fields, so Execute cannot fail.
	_ = t.Execute(&buf, data)
	return buf.String()
}
