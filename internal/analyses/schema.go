package analyses

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/analysis.schema.json
var analysisSchemaJSON string

var analysisSchema = mustSchema(analysisSchemaJSON)

// Validation reports whether a parsed reply matched the schema as-is.
// Reasons name every deviation; the normalizer repairs them per Policy.
type Validation struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons,omitempty"`
}

// ValidateReply checks a decoded reply against the analysis schema.
func ValidateReply(doc any) Validation {
	return validate(analysisSchema, doc)
}

func validate(schema *gojsonschema.Schema, doc any) Validation {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Validation{Valid: false, Reasons: []string{err.Error()}}
	}
	if result.Valid() {
		return Validation{Valid: true}
	}
	reasons := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		reasons = append(reasons, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	sort.Strings(reasons)
	return Validation{Valid: false, Reasons: reasons}
}

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("analysis schema: %v", err))
	}
	return schema
}
