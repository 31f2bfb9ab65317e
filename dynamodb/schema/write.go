package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/acksell/ddbtable/dynamodb/table"
	"gopkg.in/yaml.v3"
)

const generatedHeader = "# Generated by ddb gen. DO NOT EDIT.\n\n"

// DefinitionsFile is the root of an exported definitions file.
type DefinitionsFile struct {
	Tables []table.TableDefinition `yaml:"tables" json:"tables"`
}

// EncodeDefinitions writes defs as YAML to w, preceded by a generated header.
func EncodeDefinitions(w io.Writer, defs []table.TableDefinition) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(DefinitionsFile{Tables: defs}); err != nil {
		return fmt.Errorf("marshaling definitions: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("marshaling definitions: %w", err)
	}

	if _, err := io.WriteString(w, generatedHeader); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteDefinitions writes defs to path.
func WriteDefinitions(path string, defs []table.TableDefinition) error {
	var buf bytes.Buffer
	if err := EncodeDefinitions(&buf, defs); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing definitions file: %w", err)
	}
	return nil
}

// ReadDefinitions reads a file written by WriteDefinitions.
func ReadDefinitions(path string) ([]table.TableDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDefinitions(data)
}

// ParseDefinitions decodes the contents of a definitions file.
func ParseDefinitions(data []byte) ([]table.TableDefinition, error) {
	var f DefinitionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing definitions file: %w", err)
	}
	return f.Tables, nil
}
