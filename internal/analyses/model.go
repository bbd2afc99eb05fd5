package analyses

import (
	"encoding/json"
	"time"

	"career-coach/internal/extract"
)

// Record is one persisted analysis. It is never updated after Create.
type Record struct {
	ID               string             `json:"id"`
	UserID           string             `json:"userId"`
	CompanyName      string             `json:"companyName"`
	JobTitle         string             `json:"jobTitle"`
	JobDescription   string             `json:"jobDescription"`
	ResumeURL        string             `json:"resumeUrl"`
	ExtractionMethod extract.Method     `json:"extractionMethod"`
	ATSScore         int                `json:"atsScore"`
	Analysis         StructuredAnalysis `json:"analysis"`
	// AnalysisJSON is the exact document stored for Analysis.
	AnalysisJSON json.RawMessage `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type StructuredAnalysis struct {
	Summary        string         `json:"summary"`
	ATSScore       int            `json:"atsScore"`
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	KeywordMatches KeywordMatches `json:"keywordMatches"`
	Suggestions    []string       `json:"suggestions"`
	SkillsAnalysis SkillsAnalysis `json:"skillsAnalysis"`
}

type KeywordMatches struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

type SkillsAnalysis struct {
	Present     []string `json:"present"`
	Recommended []string `json:"recommended"`
}

// Request is the job context a resume is analyzed against.
type Request struct {
	CompanyName    string `form:"companyName" json:"companyName" validate:"required,max=200"`
	JobTitle       string `form:"jobTitle" json:"jobTitle" validate:"required,max=200"`
	JobDescription string `form:"jobDescription" json:"jobDescription" validate:"required,max=50000"`
}

// Upload is the resume file as received. It lives for one request.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}
