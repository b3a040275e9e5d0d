package mcp

import (
	"fmt"
	"math"

	"gcf/internal/errors"
)

func requiredString(params map[string]interface{}, name string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", errors.NewInvalidArgumentsError(name, "is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewInvalidArgumentsError(name, fmt.Sprintf("must be a string, got %T", v))
	}
	if s == "" {
		return "", errors.NewInvalidArgumentsError(name, "must not be empty")
	}
	return s, nil
}

func optionalString(params map[string]interface{}, name string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewInvalidArgumentsError(name, fmt.Sprintf("must be a string, got %T", v))
	}
	return s, nil
}

// optionalInt reads a JSON number that must be integral. Absent or null
// yields nil.
func optionalInt(params map[string]interface{}, name string) (*int, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return nil, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	default:
		return nil, errors.NewInvalidArgumentsError(name, fmt.Sprintf("must be an integer, got %T", v))
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, errors.NewInvalidArgumentsError(name, fmt.Sprintf("must be an integer, got %v", f))
	}
	i := int(f)
	return &i, nil
}
