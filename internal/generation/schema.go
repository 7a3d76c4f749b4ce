package generation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type responseSchema struct {
	schema *gojsonschema.Schema
}

func mustSchema(src string) *responseSchema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile response schema: %v", err))
	}
	return &responseSchema{schema: s}
}

func (s *responseSchema) validate(doc []byte) error {
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(msgs, "; "))
}

const experienceItems = `{
  "type": "object",
  "required": ["role", "bullets"],
  "properties": {
    "role": {"type": "string"},
    "company": {"type": "string"},
    "duration": {"type": "string"},
    "bullets": {"type": "array", "items": {"type": "string"}}
  }
}`

const projectItems = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"}
  }
}`

const educationItems = `{
  "type": "object",
  "properties": {
    "degree": {"type": "string"},
    "institution": {"type": "string"},
    "year": {"type": "string"}
  }
}`

const documentProperties = `
    "fullName": {"type": "string"},
    "jobTitle": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "location": {"type": "string"},
    "summary": {"type": "string"},
    "experiences": {"type": "array", "items": ` + experienceItems + `},
    "education": {"type": "array", "items": ` + educationItems + `},
    "skills": {"type": "array", "items": {"type": "string"}},
    "projects": {"type": "array", "items": ` + projectItems + `},
    "certifications": {"type": "string"}`

const stringList = `{"type": "array", "items": {"type": "string"}}`

var enhanceSchema = mustSchema(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "experiences": {"type": "array", "items": ` + experienceItems + `},
    "projects": {"type": "array", "items": ` + projectItems + `}
  }
}`)

var improveSchema = mustSchema(`{
  "type": "object",
  "required": ["fullName", "experiences"],
  "properties": {` + documentProperties + `,
    "improvements": ` + stringList + `
  }
}`)

var tailorSchema = mustSchema(`{
  "type": "object",
  "required": ["tailoredResume", "matchAnalysis"],
  "properties": {
    "tailoredResume": {
      "type": "object",
      "required": ["fullName"],
      "properties": {` + documentProperties + `
      }
    },
    "matchAnalysis": {
      "type": "object",
      "required": ["matchScore"],
      "properties": {
        "matchScore": {"type": "integer", "minimum": 0, "maximum": 100},
        "matchedKeywords": ` + stringList + `,
        "missingKeywords": ` + stringList + `,
        "suggestions": ` + stringList + `,
        "strengths": ` + stringList + `
      }
    }
  }
}`)
