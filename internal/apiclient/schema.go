package apiclient

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const carSchemaJSON = `{
  "type": "object",
  "required": ["id", "brand", "model", "costPerHour"],
  "properties": {
    "id": {"type": "integer"},
    "brand": {"type": "string"},
    "model": {"type": "string"},
    "image": {"type": ["string", "null"]},
    "yearOfProduction": {"type": "integer"},
    "costPerHour": {"type": "number", "minimum": 0},
    "description": {"type": ["string", "null"]},
    "ownerId": {"type": ["integer", "null"]}
  }
}`

const userSchemaJSON = `{
  "type": "object",
  "required": ["id", "email"],
  "properties": {
    "id": {"type": "integer"},
    "firstName": {"type": ["string", "null"]},
    "lastName": {"type": ["string", "null"]},
    "email": {"type": "string"}
  }
}`

const requestSchemaJSON = `{
  "type": "object",
  "required": ["id", "startDate", "endDate", "totalPrice", "status", "car"],
  "properties": {
    "id": {"type": "integer"},
    "startDate": {"type": "string", "format": "date-time"},
    "endDate": {"type": "string", "format": "date-time"},
    "totalPrice": {"type": "number"},
    "status": {"enum": ["PENDING", "ACCEPTED", "DECLINED"]},
    "car": {"type": "object", "required": ["id"], "properties": {"id": {"type": "integer"}}},
    "user": {"type": ["object", "null"]}
  }
}`

const uploadSchemaJSON = `{
  "type": "object",
  "required": ["url"],
  "properties": {"url": {"type": "string", "minLength": 1}}
}`

// schema names a response shape checked before unmarshalling.
type schema struct {
	name string
	s    *gojsonschema.Schema
}

var (
	carSchema         = mustSchema("car", carSchemaJSON)
	carListSchema     = mustSchema("car list", listOf(carSchemaJSON))
	userSchema        = mustSchema("user", userSchemaJSON)
	requestSchema     = mustSchema("rental request", requestSchemaJSON)
	requestListSchema = mustSchema("rental request list", listOf(requestSchemaJSON))
	uploadSchema      = mustSchema("upload", uploadSchemaJSON)
)

func listOf(item string) string {
	return `{"type": "array", "items": ` + item + `}`
}

func mustSchema(name, src string) *schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("apiclient: invalid %s schema: %v", name, err))
	}
	return &schema{name: name, s: s}
}

// validate checks body against the schema and describes the first few violations.
func (sc *schema) validate(body []byte) error {
	result, err := sc.s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", sc.name, err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for i, desc := range result.Errors() {
		if i == 3 {
			problems = append(problems, "...")
			break
		}
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("%s does not match schema: %s", sc.name, strings.Join(problems, "; "))
}
