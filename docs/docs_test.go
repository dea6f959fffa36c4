package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type document struct {
	BasePath    string                                `json:"basePath"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

type operation struct {
	Parameters []struct {
		In     string         `json:"in"`
		Schema map[string]any `json:"schema"`
	} `json:"parameters"`
}

func TestReadDoc(t *testing.T) {
	var doc document
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	assert.Equal(t, "/api", doc.BasePath)

	for _, name := range []string{"models.TaskInput", "models.NoteInput", "models.LinkInput", "models.ServiceRequestInput"} {
		assert.Contains(t, doc.Definitions, name)
	}

	// тело create/update общее для всех видов ресурса
	for path, method := range map[string]string{"/{kind}": "post", "/{kind}/{id}": "put"} {
		var op operation
		require.NoError(t, json.Unmarshal(doc.Paths[path][method], &op), path)
		var bodies int
		for _, p := range op.Parameters {
			if p.In == "body" {
				bodies++
				assert.Equal(t, "object", p.Schema["type"], path)
				assert.NotContains(t, p.Schema, "$ref", path)
			}
		}
		assert.Equal(t, 1, bodies, path)
	}
}
