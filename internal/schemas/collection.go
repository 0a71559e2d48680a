package schemas

import (
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/job-tracker/internal/types"
)

// CollectionSchemaName names the stored application collection schema.
const CollectionSchemaName = "application collection"

var collectionSchema = sync.OnceValue(func() gojsonschema.JSONLoader {
	return gojsonschema.NewGoLoader(CollectionSchema())
})

// CollectionSchema returns the JSON Schema for a persisted collection: an
// array of application records. Status accepts identifiers and display labels
// so that blobs written by older clients still load.
func CollectionSchema() map[string]interface{} {
	statuses := make([]interface{}, 0, 2*len(types.Statuses()))
	for _, s := range types.Statuses() {
		statuses = append(statuses, string(s), s.Label())
	}

	nonBlank := map[string]interface{}{"type": "string", "pattern": `\S`}

	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title":   "Job application collection",
		"type":    "array",
		"items": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"id", "company", "position", "status"},
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":      []interface{}{"string", "integer"},
					"minLength": 1,
				},
				"company":  nonBlank,
				"position": nonBlank,
				"status":   map[string]interface{}{"enum": statuses},
				"dateApplied": map[string]interface{}{
					"type":    []interface{}{"string", "null"},
					"pattern": `^\d{4}-\d{2}-\d{2}`,
				},
				"notes":     map[string]interface{}{"type": []interface{}{"string", "null"}},
				"createdAt": map[string]interface{}{"type": []interface{}{"string", "null"}},
				"updatedAt": map[string]interface{}{"type": []interface{}{"string", "null"}},
			},
		},
	}
}

// ValidateCollection checks a stored collection blob.
func ValidateCollection(data []byte) error {
	return Validate(CollectionSchemaName, collectionSchema(), data)
}
