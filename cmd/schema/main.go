package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	wire "github.com/DoyleJ11/tactile-board-backend/pkg/types"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	client := reflector.ReflectFromType(reflect.TypeOf(wire.ClientMessage{}))
	client.Version = ""
	client.Title = "Client message"
	client.Description = "Frame sent by a browser. Fields other than type are coerced one by one; frames that cannot be used are ignored."

	server := reflector.ReflectFromType(reflect.TypeOf(wire.ServerMessage{}))
	server.Version = ""
	server.Title = "Server message"
	server.Description = "Frame pushed to room members."

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Tactile board protocol",
		Description: "JSON text frames exchanged over /ws.",
		OneOf: []*jsonschema.Schema{
			client,
			server,
		},
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	return os.Rename(tmpPath, outPath)
}
