package suite

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"todocheck/internal/backend/todoapi"
)

// Failure is an assertion that did not hold inside a scenario step.
type Failure struct {
	Step string
	Err  error
}

func (f *Failure) Error() string {
	return f.Step + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(step string, format string, args ...any) error {
	return &Failure{Step: step, Err: fmt.Errorf(format, args...)}
}

func expectStatus(step string, resp *todoapi.Response, want int) error {
	if resp.StatusCode != want {
		return fail(step, "expected status %d, got %d: %s", want, resp.StatusCode, truncate(resp.Body))
	}
	return nil
}

func expectEqual[T comparable](step, field string, want, got T) error {
	if want != got {
		return fail(step, "%s: expected %v, got %v", field, want, got)
	}
	return nil
}

func (e *Env) expectSchema(step, name string, doc []byte) error {
	if e.Schemas == nil {
		return nil
	}
	if err := e.Schemas.Validate(name, doc); err != nil {
		return &Failure{Step: step, Err: err}
	}
	return nil
}

func decode(step string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fail(step, "decoding response: %v", err)
	}
	return nil
}

// truncate shortens b to at most limit bytes without splitting a UTF-8 sequence.
func truncate(b []byte) string {
	const limit = 200
	if len(b) <= limit {
		return string(b)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}
