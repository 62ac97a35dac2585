// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package response

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed dashboard.schema.json
var dashboardSchemaJSON []byte

var dashboardSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compileSchema("dashboard.schema.json", dashboardSchemaJSON)
})

func compileSchema(name string, raw []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// LoadSchema compiles a dashboard schema read from an external file, for
// deployments that override the built-in one.
func LoadSchema(name string, raw []byte) (*jsonschema.Schema, error) {
	return compileSchema(name, raw)
}

// CheckDashboard validates dashboard JSON against the built-in schema.
func CheckDashboard(dashboard string) error {
	schema, err := dashboardSchema()
	if err != nil {
		return err
	}
	return CheckDashboardWith(schema, dashboard)
}

// CheckDashboardWith validates dashboard JSON against schema.
func CheckDashboardWith(schema *jsonschema.Schema, dashboard string) error {
	var v any
	if err := json.Unmarshal([]byte(dashboard), &v); err != nil {
		return fmt.Errorf("unmarshal dashboard: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("dashboard does not match schema: %w", err)
	}
	return nil
}
