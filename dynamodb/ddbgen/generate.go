package ddbgen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/acksell/ddbtable/dynamodb/schema"
	"github.com/acksell/ddbtable/dynamodb/table"
)

const (
	schemaDirName  = "schema"
	schemaYAMLName = "schema_dynamodb.yaml"
	schemaGoName   = "schema_gen.go"
)

// GenerateOptions configures RunGenerate.
type GenerateOptions struct {
	// Dir is the package directory to scan.
	Dir string
	// Out receives one line per written file. Defaults to os.Stdout.
	Out io.Writer
}

// RunGenerate discovers the table types in opts.Dir and writes a schema/
// subpackage next to them: schema_dynamodb.yaml with the resolved table
// definitions and schema_gen.go, which embeds the YAML and exports it as
// schema.Tables.
func RunGenerate(opts GenerateOptions) ([]table.TableDefinition, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	result, err := Discover(opts.Dir)
	if err != nil {
		return nil, err
	}
	if len(result.File.Types) == 0 {
		return nil, fmt.Errorf("no types with a tabledef.Table marker found in %s", opts.Dir)
	}
	defs, err := result.File.Definitions()
	if err != nil {
		return nil, err
	}

	schemaDir := filepath.Join(opts.Dir, schemaDirName)
	if err := os.MkdirAll(schemaDir, 0755); err != nil {
		return nil, fmt.Errorf("creating schema directory: %w", err)
	}

	yamlPath := filepath.Join(schemaDir, schemaYAMLName)
	if err := schema.WriteDefinitions(yamlPath, defs); err != nil {
		return nil, err
	}
	fmt.Fprintf(opts.Out, "ddb gen: generated %s (%d tables)\n", yamlPath, len(defs))

	schemaGoPath := filepath.Join(schemaDir, schemaGoName)
	if err := os.WriteFile(schemaGoPath, []byte(schemaGoCode), 0644); err != nil {
		return nil, fmt.Errorf("writing schema go file: %w", err)
	}
	fmt.Fprintf(opts.Out, "ddb gen: generated %s\n", schemaGoPath)

	return defs, nil
}

const schemaGoCode = `// Code generated by ddb gen. DO NOT EDIT.

package schema

import (
	_ "embed"

	"github.com/acksell/ddbtable/dynamodb/schema"
	"github.com/acksell/ddbtable/dynamodb/table"
)

//go:embed ` + schemaYAMLName + `
var schemaYAML []byte

// Tables contains the DynamoDB table definitions declared in the parent
// package. Pass them to ddbstore.New or ddbsdk.Client.EnsureTable.
var Tables []table.TableDefinition

func init() {
	var err error
	Tables, err = schema.ParseDefinitions(schemaYAML)
	if err != nil {
		panic("ddb gen: failed to parse embedded schema: " + err.Error())
	}
}
`
