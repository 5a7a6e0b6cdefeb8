// Package schema validates todo service responses against named JSON Schema documents.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var embedded embed.FS

// baseURL roots schema resources so relative $refs resolve between them.
const baseURL = "mem://todocheck/schemas/"

// Schema names used by the check suite.
const (
	CallEndpoint = "call_endpoint.json"
	CreateTask   = "create_task.json"
	GetTask      = "get_task.json"
	GetTasksList = "get_tasks_list.json"
	UpdateTask   = "update_task.json"
	DeleteTask   = "delete_task.json"
)

// ErrUnknownSchema is returned for a schema name the validator does not hold.
var ErrUnknownSchema = errors.New("unknown schema")

// Validator holds compiled schemas keyed by file name.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles the embedded schemas.
func New() (*Validator, error) {
	sources, err := readFS(embedded, "schemas")
	if err != nil {
		return nil, err
	}
	return compile(sources)
}

// NewWithDir compiles the embedded schemas overlaid with every *.json file in dir.
// A file in dir replaces the embedded schema of the same name.
func NewWithDir(dir string) (*Validator, error) {
	sources, err := readFS(embedded, "schemas")
	if err != nil {
		return nil, err
	}
	extra, err := readFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("reading schema dir %s: %w", dir, err)
	}
	for name, data := range extra {
		sources[name] = data
	}
	return compile(sources)
}

// Names returns the compiled schema names in sorted order.
func (v *Validator) Names() []string {
	names := make([]string, 0, len(v.schemas))
	for name := range v.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks a raw JSON document against the named schema.
func (v *Validator) Validate(name string, doc []byte) error {
	s, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	// json.Number keeps integers exact for the integer keyword.
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var inst any
	if err := dec.Decode(&inst); err != nil {
		return fmt.Errorf("%s: document is not valid JSON: %w", name, err)
	}
	if dec.More() {
		return fmt.Errorf("%s: document is not valid JSON: trailing data", name)
	}
	return validate(name, s, inst)
}

func validate(name string, s *jsonschema.Schema, inst any) error {
	err := s.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%s: %w", name, err)
	}
	result := &ValidationError{Schema: name}
	collectProblems(result, ve)
	return result
}

func compile(sources map[string][]byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// All documents must be resources before any is compiled so $refs resolve.
	for name, data := range sources {
		if err := compiler.AddResource(baseURL+name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", name, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(sources))}
	for name := range sources {
		s, err := compiler.Compile(baseURL + name)
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", name, err)
		}
		v.schemas[name] = s
	}
	return v, nil
}

func readFS(fsys fs.FS, root string) (map[string][]byte, error) {
	sources := make(map[string][]byte)
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		sources[path.Base(filepath.ToSlash(p))] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}
