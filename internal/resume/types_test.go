package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsEveryList(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"fullName":"Ada","experiences":[{"role":"Dev"}]}`), &doc))
	doc.Normalize()

	assert.NotNil(t, doc.Experiences[0].Bullets)
	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Skills)
	assert.NotNil(t, doc.Projects)
	assert.NotNil(t, doc.Achievements)
	assert.NotNil(t, doc.Publications)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"education":[]`)
	assert.Contains(t, string(raw), `"bullets":[]`)
}

func TestCloneDoesNotAlias(t *testing.T) {
	doc := Document{
		Experiences: []Experience{{Role: "Dev", Bullets: []string{"a", "b"}}},
		Skills:      []string{"Go"},
	}
	cp := doc.Clone()
	cp.Experiences[0].Bullets[0] = "changed"
	cp.Skills[0] = "Rust"

	assert.Equal(t, "a", doc.Experiences[0].Bullets[0])
	assert.Equal(t, "Go", doc.Skills[0])
	assert.NotNil(t, cp.Projects)
}

func TestFallback(t *testing.T) {
	form := FormInput{
		FullName: "  Ada Lovelace ",
		Experiences: []FormExperience{
			{Role: "Programmer", Company: "Babbage & Co", Responsibilities: "Wrote notes. Published the algorithm.  "},
		},
		Skills:         "Go, , SQL ,Mathematics",
		Certifications: " none ",
	}
	doc := form.Fallback()

	assert.Equal(t, "Ada Lovelace", doc.FullName)
	assert.Equal(t, []string{"Wrote notes", "Published the algorithm"}, doc.Experiences[0].Bullets)
	assert.Equal(t, []string{"Go", "SQL", "Mathematics"}, doc.Skills)
	assert.Equal(t, "none", doc.Certifications)
	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Projects)
}
