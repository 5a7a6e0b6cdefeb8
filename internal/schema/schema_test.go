package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"todocheck/internal/schema"
)

func newValidator(t *testing.T) *schema.Validator {
	t.Helper()
	v, err := schema.New()
	if err != nil {
		t.Fatalf("failed to compile schemas: %v", err)
	}
	return v
}

func TestNew_CompilesAllSchemas(t *testing.T) {
	v := newValidator(t)

	for _, name := range []string{
		schema.CallEndpoint, schema.CreateTask, schema.GetTask,
		schema.GetTasksList, schema.UpdateTask, schema.DeleteTask,
	} {
		if err := v.Validate(name, []byte(`null`)); errors.Is(err, schema.ErrUnknownSchema) {
			t.Errorf("schema %s not compiled", name)
		}
	}
}

func TestValidate(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name   string
		schema string
		doc    string
		valid  bool
	}{
		{"root ok", schema.CallEndpoint, `{"message":"Hello World from Todo API"}`, true},
		{"root missing message", schema.CallEndpoint, `{}`, false},
		{"create ok", schema.CreateTask, `{"task":{"task_id":"task_1","user_id":"u","content":"c","is_done":false,"created_time":1700000000,"ttl":1700086400}}`, true},
		{"create without task", schema.CreateTask, `{"task_id":"task_1"}`, false},
		{"create with bad nested type", schema.CreateTask, `{"task":{"task_id":"task_1","user_id":"u","content":"c","is_done":"no"}}`, false},
		{"get ok", schema.GetTask, `{"task_id":"task_1","user_id":"u","content":"c","is_done":true}`, true},
		{"get large integer time", schema.GetTask, `{"task_id":"task_1","user_id":"u","content":"c","is_done":true,"created_time":9007199254740993}`, true},
		{"get float time", schema.GetTask, `{"task_id":"task_1","user_id":"u","content":"c","is_done":true,"created_time":1.5}`, false},
		{"list ok", schema.GetTasksList, `[{"task_id":"a","user_id":"u","content":"c","is_done":false}]`, true},
		{"list empty", schema.GetTasksList, `[]`, true},
		{"list of strings", schema.GetTasksList, `["a"]`, false},
		{"update ok", schema.UpdateTask, `{"updated_task_id":"task_1"}`, true},
		{"delete ok", schema.DeleteTask, `{"deleted_task_id":"task_1"}`, true},
		{"delete empty id", schema.DeleteTask, `{"deleted_task_id":""}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.schema, []byte(tt.doc))
			if tt.valid && err != nil {
				t.Fatalf("expected document to validate: %v", err)
			}
			if !tt.valid && err == nil {
				t.Fatal("expected schema validation to fail")
			}
		})
	}
}

func TestValidate_ReportsPaths(t *testing.T) {
	v := newValidator(t)

	err := v.Validate(schema.GetTask, []byte(`{"task_id":"t","user_id":7,"content":"c","is_done":false}`))
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *schema.ValidationError, got %v", err)
	}
	if ve.Schema != schema.GetTask {
		t.Errorf("expected schema %q, got %q", schema.GetTask, ve.Schema)
	}
	found := false
	for _, p := range ve.Problems {
		if p.Path == "/user_id" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a problem at /user_id, got %+v", ve.Problems)
	}
}

func TestValidate_UnknownSchemaAndBadJSON(t *testing.T) {
	v := newValidator(t)

	if err := v.Validate("nope.json", []byte(`{}`)); !errors.Is(err, schema.ErrUnknownSchema) {
		t.Errorf("expected ErrUnknownSchema, got %v", err)
	}
	if err := v.Validate(schema.GetTask, []byte(`{not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if err := v.Validate(schema.CallEndpoint, []byte(`{"message":"a"} {"message":"b"}`)); err == nil {
		t.Error("expected error for trailing data")
	}
}

func TestNames(t *testing.T) {
	v := newValidator(t)

	expected := []string{
		schema.CallEndpoint, schema.CreateTask, schema.DeleteTask,
		schema.GetTask, schema.GetTasksList, "task.json", schema.UpdateTask,
	}
	got := v.Names()
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, got)
			break
		}
	}
}

func TestNewWithDir_Overrides(t *testing.T) {
	dir := t.TempDir()
	strict := `{"type":"object","required":["message","version"]}`
	if err := os.WriteFile(filepath.Join(dir, schema.CallEndpoint), []byte(strict), 0600); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	v, err := schema.NewWithDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(schema.CallEndpoint, []byte(`{"message":"hi"}`)); err == nil {
		t.Error("expected override schema to require version")
	}
	if err := v.Validate(schema.GetTask, []byte(`{"task_id":"t","user_id":"u","content":"c","is_done":false}`)); err != nil {
		t.Errorf("embedded schemas should still be present: %v", err)
	}
	if n := len(v.Names()); n != 7 {
		t.Errorf("expected the override to replace, not add, a schema; got %d names", n)
	}
}
