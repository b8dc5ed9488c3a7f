package pipeline

import "fmt"

// InvalidInputError reports a nil or non-text element in the input collection.
// Index is -1 when the whole input is nil or of an unsupported type.
type InvalidInputError struct {
	Index int
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return "invalid input: expected a string or a collection of strings"
	}
	return fmt.Sprintf("invalid input at index %d", e.Index)
}

// NormalizeInputs validates and normalizes an input collection before any batch
// is dispatched. A bare string is promoted to a one-element collection. The
// whole collection is checked eagerly so a later-invalid element can never
// cause partial work.
func NormalizeInputs(input any) ([]string, error) {
	switch v := input.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		texts := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &InvalidInputError{Index: i}
			}
			texts[i] = s
		}
		return texts, nil
	default:
		return nil, &InvalidInputError{Index: -1}
	}
}
