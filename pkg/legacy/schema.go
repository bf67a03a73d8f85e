package legacy

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes the fields the migration reads. It is deliberately
// loose: unknown members are allowed and every known member may be null.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "RootFolder": { "$ref": "#/definitions/node" }
  },
  "definitions": {
    "node": {
      "type": ["object", "null"],
      "properties": {
        "Name": { "type": ["string", "number", "null"] },
        "Contents": { "type": ["string", "null"] },
        "Language": { "type": ["string", "integer", "null"] },
        "CraftingLoop": { "type": ["boolean", "null"] },
        "CraftLoopCount": { "type": ["integer", "null"] },
        "isPostProcess": { "type": ["boolean", "null"] },
        "Children": {
          "type": ["array", "null"],
          "items": { "$ref": "#/definitions/node" }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// Drift is one place where a document departs from the expected shape.
type Drift struct {
	Field       string
	Description string
}

func (d Drift) String() string {
	return fmt.Sprintf("%s: %s", d.Field, d.Description)
}

// Diagnose reports schema drift in a raw legacy document. Drift is
// informational; the migration still reads whatever it can.
func Diagnose(raw []byte) ([]Drift, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate legacy document")
	}
	if result.Valid() {
		return nil, nil
	}

	drift := make([]Drift, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		drift = append(drift, Drift{Field: e.Field(), Description: e.Description()})
	}
	return drift, nil
}
