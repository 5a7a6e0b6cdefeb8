package schema

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Problem is one leaf mismatch between a document and a schema.
type Problem struct {
	// Path is the instance location as a JSON pointer ("" is the document root).
	Path    string
	Message string
}

func (p Problem) String() string {
	loc := p.Path
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + p.Message
}

// ValidationError reports every mismatch found for one schema.
type ValidationError struct {
	Schema   string
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", e.Schema, e.Problems[0])
	}
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s: %d problems: %s", e.Schema, len(e.Problems), strings.Join(parts, "; "))
}

func collectProblems(result *ValidationError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Problems = append(result.Problems, Problem{
			Path:    err.InstanceLocation,
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectProblems(result, cause)
	}
}
