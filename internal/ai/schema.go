package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const jobFieldsSchema = `{
  "type": "object",
  "properties": {
    "roleTitle": {"type": "string", "maxLength": 200},
    "companyName": {"type": "string", "maxLength": 200},
    "contactPerson": {"type": "string", "maxLength": 200},
    "reference": {"type": "string", "maxLength": 200},
    "businessAddress": {"type": "string", "maxLength": 300}
  },
  "required": ["roleTitle", "companyName"]
}`

const letterSchema = `{
  "type": "object",
  "properties": {
    "opening": {"type": "string", "minLength": 1},
    "body": {"type": "string", "minLength": 1},
    "closing": {"type": "string", "minLength": 1}
  },
  "required": ["opening", "body", "closing"]
}`

var (
	jobFieldsLoader = gojsonschema.NewStringLoader(jobFieldsSchema)
	letterLoader    = gojsonschema.NewStringLoader(letterSchema)
)

// decodeContract validates raw against schema and decodes it into out.
func decodeContract(schema gojsonschema.JSONLoader, raw string, out any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidOutput, strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return nil
}
