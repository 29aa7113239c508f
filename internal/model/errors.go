package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SchemaError reports required columns or keys missing from an input artifact.
// It is fatal: the pipeline cannot continue without a well-formed input.
type SchemaError struct {
	Artifact string
	Missing  []string
	Reason   string
}

// NewSchemaError builds a SchemaError with the missing names sorted.
func NewSchemaError(artifact string, missing ...string) *SchemaError {
	m := append([]string(nil), missing...)
	sort.Strings(m)
	return &SchemaError{Artifact: artifact, Missing: m}
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s missing required columns: %s", e.Artifact, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s is malformed: %s", e.Artifact, e.Reason)
}

// IsSchemaError reports whether err, or any error it wraps, is a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// ParamError reports an invalid caller-supplied parameter such as a trip
// window whose start is after its end.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// IsParamError reports whether err, or any error it wraps, is a ParamError.
func IsParamError(err error) bool {
	var pe *ParamError
	return errors.As(err, &pe)
}
