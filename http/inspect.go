package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// ErrPathNotFound is returned by Extract when the path matches nothing.
var ErrPathNotFound = errors.New("path not found")

// Extract looks up a value in the raw response body. path may be a JSONPath
// expression ("$.users[0].name") or native gjson syntax ("users.0.name").
// Strings are returned unquoted; objects and arrays as raw JSON.
func (r *Response[T]) Extract(path string) (string, error) {
	if len(r.RawBody) == 0 {
		return "", errors.New("empty response body")
	}
	if !gjson.ValidBytes(r.RawBody) {
		return "", errors.New("response body is not valid JSON")
	}

	result := gjson.GetBytes(r.RawBody, gjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// gjsonPath rewrites the JSONPath subset used by callers
// ($, .name, [n], ['name'], ["name"]) into gjson's dotted form.
func gjsonPath(path string) string {
	if !strings.HasPrefix(path, "$") {
		return path
	}
	path = strings.TrimPrefix(strings.TrimPrefix(path, "$"), ".")
	if path == "" {
		return "@this"
	}

	var sb strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c != '[' {
			sb.WriteByte(c)
			continue
		}
		end := strings.IndexByte(path[i:], ']')
		if end < 0 {
			sb.WriteString(path[i:])
			break
		}
		segment := strings.Trim(path[i+1:i+end], `'"`)
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(segment)
		i += end
	}
	return sb.String()
}

// SchemaErrors collects the individual violations reported by ValidateSchema.
type SchemaErrors []string

func (se SchemaErrors) Error() string {
	return strings.Join(se, "; ")
}

// ValidateSchema checks the raw response body against a JSON Schema document.
// It returns nil when the body conforms, SchemaErrors when it does not, and
// a plain error when the schema or body cannot be parsed.
func (r *Response[T]) ValidateSchema(schema string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.schema.json", strings.NewReader(schema)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile("response.schema.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(r.RawBody, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err = compiled.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return collectViolations(verr)
}

func collectViolations(err *jsonschema.ValidationError) SchemaErrors {
	var out SchemaErrors
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out = append(out, loc+": "+err.Message)
	}
	for _, cause := range err.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}
