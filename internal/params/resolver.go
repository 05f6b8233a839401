// Package params resolves and validates raw per-item parameter values
// against an operation's parameter specs. Resolution happens entirely before
// any adapter call: a batch item that fails here never produces side effects.
package params

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kravuar/arangate/internal/catalog"
	"github.com/kravuar/arangate/model"
)

// Resolved holds the validated, type-normalized parameters for one
// invocation. Values are keyed by spec name and already coerced to their
// canonical Go types (string, float64, bool, map[string]any, []any).
type Resolved struct {
	values map[string]any
}

// String returns a string parameter. Safe after resolution for specs of kind
// string, identifier, or direction.
func (r Resolved) String(name string) string {
	v, _ := r.values[name].(string)
	return v
}

// Number returns a numeric parameter as float64.
func (r Resolved) Number(name string) float64 {
	v, _ := r.values[name].(float64)
	return v
}

// Int returns a numeric parameter truncated to int.
func (r Resolved) Int(name string) int {
	return int(r.Number(name))
}

// Bool returns a boolean parameter.
func (r Resolved) Bool(name string) bool {
	v, _ := r.values[name].(bool)
	return v
}

// Doc returns a JSON document parameter.
func (r Resolved) Doc(name string) map[string]any {
	v, _ := r.values[name].(map[string]any)
	return v
}

// Array returns a JSON array parameter.
func (r Resolved) Array(name string) []any {
	v, _ := r.values[name].([]any)
	return v
}

// Resolver validates raw values against parameter specs.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve binds the raw values for one batch item to the descriptor's specs.
// Defaults are substituted for absent optional parameters; absent required
// parameters and malformed values fail with a validation error naming the
// parameter.
func (rs *Resolver) Resolve(desc catalog.OperationDescriptor, raw map[string]any) (Resolved, error) {
	out := Resolved{values: make(map[string]any, len(desc.Params))}

	for _, spec := range desc.Params {
		val, present := raw[spec.Name]
		if !present || val == nil {
			if spec.Default != nil {
				out.values[spec.Name] = spec.Default
				continue
			}
			if spec.Required {
				return Resolved{}, model.NewValidationError(
					"required parameter %q is missing", spec.Name)
			}
			continue
		}

		coerced, err := coerce(spec, val)
		if err != nil {
			return Resolved{}, err
		}
		out.values[spec.Name] = coerced
	}

	return out, nil
}

// coerce normalizes one raw value according to the parameter's declared kind.
func coerce(spec catalog.ParameterSpec, val any) (any, error) {
	switch spec.Kind {
	case catalog.KindString:
		s, ok := val.(string)
		if !ok {
			return nil, model.NewValidationError(
				"parameter %q must be a string, got %T", spec.Name, val)
		}
		return s, nil

	case catalog.KindIdentifier:
		s, ok := val.(string)
		if !ok {
			return nil, model.NewValidationError(
				"parameter %q must be a string, got %T", spec.Name, val)
		}
		if err := ValidateIdentifier(spec.Name, s); err != nil {
			return nil, err.(*model.GatewayError)
		}
		return s, nil

	case catalog.KindDirection:
		s, ok := val.(string)
		if !ok {
			return nil, model.NewValidationError(
				"parameter %q must be a string, got %T", spec.Name, val)
		}
		return NormalizeDirection(spec.Name, s)

	case catalog.KindNumber:
		switch n := val.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, model.NewValidationError(
					"parameter %q must be a number, got %q", spec.Name, n.String())
			}
			return f, nil
		default:
			return nil, model.NewValidationError(
				"parameter %q must be a number, got %T", spec.Name, val)
		}

	case catalog.KindBoolean:
		b, ok := val.(bool)
		if !ok {
			return nil, model.NewValidationError(
				"parameter %q must be a boolean, got %T", spec.Name, val)
		}
		return b, nil

	case catalog.KindJSON:
		switch d := val.(type) {
		case map[string]any:
			return d, nil
		case string:
			parsed, err := parseJSONText(d)
			if err != nil {
				return nil, model.NewValidationError(
					"parameter %q is not valid JSON: %s", spec.Name, snippet(d))
			}
			obj, ok := parsed.(map[string]any)
			if !ok {
				return nil, model.NewValidationError(
					"parameter %q must be a JSON object: %s", spec.Name, snippet(d))
			}
			return obj, nil
		default:
			return nil, model.NewValidationError(
				"parameter %q must be a JSON object, got %T", spec.Name, val)
		}

	case catalog.KindJSONArray:
		switch a := val.(type) {
		case []any:
			return a, nil
		case string:
			parsed, err := parseJSONText(a)
			if err != nil {
				return nil, model.NewValidationError(
					"parameter %q is not valid JSON: %s", spec.Name, snippet(a))
			}
			arr, ok := parsed.([]any)
			if !ok {
				return nil, model.NewValidationError(
					"parameter %q must be a JSON array: %s", spec.Name, snippet(a))
			}
			return arr, nil
		default:
			return nil, model.NewValidationError(
				"parameter %q must be a JSON array, got %T", spec.Name, val)
		}

	default:
		return nil, model.NewValidationError(
			"parameter %q has unsupported kind %q", spec.Name, spec.Kind)
	}
}

func parseJSONText(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, err
	}
	return normalizeNumbers(parsed), nil
}

// normalizeNumbers converts json.Number values back to float64 so resolved
// JSON matches the shape of values decoded from the request body.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}

// snippet truncates offending raw text for error messages.
func snippet(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:max], len(s))
}
