package analyses

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"career-coach/internal/llm"
)

// FieldPolicy keeps only string entries of the list at Path that are longer
// than MinLen runes.
type FieldPolicy struct {
	Path   string
	MinLen int
}

// Policy is the per-field substitution table applied after validation.
type Policy struct {
	Lists        []FieldPolicy
	DefaultScore int
}

// DefaultPolicy filters out short list entries that are usually truncated
// or garbage model output.
var DefaultPolicy = Policy{
	Lists: []FieldPolicy{
		{Path: "strengths", MinLen: 5},
		{Path: "weaknesses", MinLen: 5},
		{Path: "keywordMatches.matched", MinLen: 2},
		{Path: "keywordMatches.missing", MinLen: 2},
		{Path: "suggestions", MinLen: 10},
		{Path: "skillsAnalysis.present", MinLen: 2},
		{Path: "skillsAnalysis.recommended", MinLen: 2},
	},
	DefaultScore: 50,
}

func (p Policy) minLen(path string) int {
	for _, f := range p.Lists {
		if f.Path == path {
			return f.MinLen
		}
	}
	return 0
}

// Meta is the request context used to synthesize missing fields.
type Meta struct {
	JobTitle    string
	CompanyName string
}

// Normalized is a fully defaulted analysis plus how far the raw reply was
// from the schema.
type Normalized struct {
	Analysis   StructuredAnalysis
	Validation Validation
}

// Normalize slices the JSON object out of a model reply and coerces every
// field independently. Only a reply with no parseable object is an error.
func Normalize(reply string, meta Meta, policy Policy) (Normalized, error) {
	sliced := llm.ObjectSlice(reply)

	var doc any
	if err := json.Unmarshal([]byte(sliced), &doc); err != nil {
		return Normalized{}, fmt.Errorf("%w: %v", ErrUnparseableReply, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return Normalized{}, fmt.Errorf("%w: reply is not a JSON object", ErrUnparseableReply)
	}

	validation := ValidateReply(obj)

	keywords := asObject(obj["keywordMatches"])
	skills := asObject(obj["skillsAnalysis"])
	list := func(src map[string]any, key, path string) []string {
		return filterStrings(src[key], policy.minLen(path))
	}

	analysis := StructuredAnalysis{
		Summary:    summaryOrDefault(obj["summary"], meta),
		ATSScore:   Score(obj["atsScore"], policy.DefaultScore),
		Strengths:  list(obj, "strengths", "strengths"),
		Weaknesses: list(obj, "weaknesses", "weaknesses"),
		KeywordMatches: KeywordMatches{
			Matched: list(keywords, "matched", "keywordMatches.matched"),
			Missing: list(keywords, "missing", "keywordMatches.missing"),
		},
		Suggestions: list(obj, "suggestions", "suggestions"),
		SkillsAnalysis: SkillsAnalysis{
			Present:     list(skills, "present", "skillsAnalysis.present"),
			Recommended: list(skills, "recommended", "skillsAnalysis.recommended"),
		},
	}
	return Normalized{Analysis: analysis, Validation: validation}, nil
}

// Score coerces a raw atsScore into [0,100]. Numbers and numeric strings are
// truncated toward zero then clamped; anything else yields def.
func Score(raw any, def int) int {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) {
		return def
	}
	f = math.Trunc(f)
	switch {
	case f < 0:
		return 0
	case f > 100:
		return 100
	}
	return int(f)
}

func summaryOrDefault(raw any, meta Meta) string {
	if s, ok := raw.(string); ok && s != "" {
		return s
	}
	return fmt.Sprintf("Analysis completed for %s position at %s", meta.JobTitle, meta.CompanyName)
}

func filterStrings(raw any, minLen int) []string {
	out := []string{}
	items, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		s, ok := item.(string)
		if !ok || utf8.RuneCountInString(s) <= minLen {
			continue
		}
		out = append(out, s)
	}
	return out
}

func asObject(raw any) map[string]any {
	if m, ok := raw.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
