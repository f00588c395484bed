package validators

import (
	"strconv"
	"strings"

	"justissimo-api/apperrors"
)

// NonEmpty returns the trimmed value or a ValidationError naming the field.
func NonEmpty(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &apperrors.ValidationError{Field: field}
	}
	return trimmed, nil
}

func IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

// PositiveID parses a strictly positive integer id, failing with message otherwise.
func PositiveID(value, message string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewDomainError(message)
	}
	return uint(id), nil
}

// OptionalInt parses a filter value; ok is false when the value is empty.
func OptionalInt(value, message string) (n int, ok bool, err error) {
	if IsEmpty(value) {
		return 0, false, nil
	}
	n, err = strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false, apperrors.NewDomainError(message)
	}
	return n, true, nil
}
