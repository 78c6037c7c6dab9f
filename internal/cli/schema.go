package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the generate report",
		Long: "Print the JSON Schema describing the report written by generate, so templates " +
			"and renderers consuming the fragments can validate their input.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(reportSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}

func strSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

// reportSchema mirrors Report. Keep the two in sync.
func reportSchema() *jsonschema.Schema {
	param := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":     strSchema("Parameter name as declared in the document"),
			"binding":  strSchema("Rust identifier the value is bound to"),
			"in":       {Type: "string", Enum: []any{"path", "query", "header", "cookie"}},
			"type":     strSchema("Rust type of the argument"),
			"optional": {Type: "boolean"},
		},
		Required: []string{"name", "binding", "in", "type", "optional"},
	}

	operation := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":           strSchema("operationId, or \"method path\" when absent"),
			"method":       strSchema("Lower-case HTTP method"),
			"path":         strSchema("Path template"),
			"mode":         {Type: "string", Enum: []any{"standard", "foreign-safe"}},
			"params":       {Type: "array", Items: param},
			"url":          strSchema("Rust expression evaluating to the request path"),
			"query":        strSchema("Statements filling query_params; absent without query parameters"),
			"needsHeaders": {Type: "boolean"},
			"headers":      strSchema("Statements building the headers map"),
			"error":        strSchema("Why the operation could not be emitted"),
		},
		Required: []string{"id", "method", "path", "mode", "url", "needsHeaders", "headers"},
	}

	return &jsonschema.Schema{
		Schema: "https://json-schema.org/draft/2020-12/schema",
		Title:  "reqsnip report",
		Type:   "object",
		Properties: map[string]*jsonschema.Schema{
			"title":      strSchema("Document title"),
			"version":    strSchema("Document version"),
			"basePath":   strSchema("Path of the first server URL"),
			"mode":       {Type: "string", Enum: []any{"standard", "foreign-safe"}},
			"operations": {Type: "array", Items: operation},
		},
		Required: []string{"title", "mode", "operations"},
	}
}
