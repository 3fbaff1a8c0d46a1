package selecthighlight

import "consultancy-workers/internal/common/validation"

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "variant": {"type": ["string", "null"], "maxLength": 64},
    "toggle": {"type": ["boolean", "null"]}
  }
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
