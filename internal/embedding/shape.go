package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchema accepts either a bare matrix of numbers or an object with an
// "embeddings" matrix.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "matrix": {
      "type": "array",
      "items": {
        "type": "array",
        "items": { "type": "number" }
      }
    }
  },
  "oneOf": [
    { "$ref": "#/definitions/matrix" },
    {
      "type": "object",
      "required": ["embeddings"],
      "properties": {
        "embeddings": { "$ref": "#/definitions/matrix" }
      }
    }
  ]
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
})

// envelope is the object form of a provider response
type envelope struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// decodeVectors validates payload against the response schema and returns the
// vectors it carries. expected is the number of inputs that were sent.
func decodeVectors(payload []byte, expected int) ([][]float64, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedding response schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, &ShapeMismatchError{Message: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		return nil, &ShapeMismatchError{Message: describeSchemaErrors(result.Errors())}
	}

	var vectors [][]float64
	trimmed := bytes.TrimSpace(payload)
	if trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &vectors)
	} else {
		var env envelope
		err = json.Unmarshal(trimmed, &env)
		vectors = env.Embeddings
	}
	if err != nil {
		return nil, &ShapeMismatchError{Message: "failed to decode vectors", Cause: err}
	}

	if len(vectors) != expected {
		return nil, &ShapeMismatchError{
			Message:  "vector count does not match input count",
			Expected: expected,
			Got:      len(vectors),
		}
	}
	return vectors, nil
}

func describeSchemaErrors(errs []gojsonschema.ResultError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return "unexpected response shape: " + strings.Join(parts, "; ")
}
