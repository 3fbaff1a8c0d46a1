package computesavings

import "consultancy-workers/internal/common/validation"

const inputSchemaJSON = `{
  "type": "object",
  "properties": {
    "businessType": {
      "description": "Business type identifier chosen by the visitor; any value is coerced to a string"
    }
  }
}`

var inputSchema = validation.MustCompile(inputSchemaJSON)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
