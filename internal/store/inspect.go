package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/taskdeck/taskdeck/internal/kv"
)

//go:embed tasks.schema.json
var schemaJSON []byte

// Report describes the health of the persisted blob. The store itself
// never fails on a bad blob (it degrades to empty), so problems here are
// diagnostics, surfaced by the doctor command.
type Report struct {
	KeyPresent bool
	Size       int
	ParseOK    bool
	SchemaOK   bool
	TaskCount  int
	Problems   []string
}

// OK reports whether the blob is absent or fully valid.
func (r *Report) OK() bool {
	return !r.KeyPresent || (r.ParseOK && r.SchemaOK)
}

// Inspect reads the raw blob and validates it against the embedded JSON
// Schema. Only a medium failure returns an error.
func (s *Store) Inspect() (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &Report{}

	data, err := s.backend.Get(Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return report, nil
		}
		return nil, err
	}
	report.KeyPresent = true
	report.Size = len(data)

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		report.Problems = append(report.Problems,
			fmt.Sprintf("blob is not valid JSON (%v); the store treats it as an empty collection", err))
		return report, nil
	}
	report.ParseOK = true

	if arr, ok := value.([]interface{}); ok {
		report.TaskCount = len(arr)
	} else {
		report.Problems = append(report.Problems,
			"blob decodes to a non-array value; the store treats it as an empty collection")
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		appendSchemaProblems(report, err)
		return report, nil
	}
	report.SchemaOK = true
	return report, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("tasks.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile("tasks.schema.json")
}

func appendSchemaProblems(report *Report, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		report.Problems = append(report.Problems, err.Error())
		return
	}
	collectSchemaProblems(report, ve)
}

func collectSchemaProblems(report *Report, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		report.Problems = append(report.Problems, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaProblems(report, cause)
	}
}
