package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/acksell/ddbtable/dynamodb/ddbgen"
	"github.com/acksell/ddbtable/dynamodb/schema"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
)

func runGen(args []string, stdout io.Writer, cfg Config) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	cfg.bindSchemaFlags(fs)
	cfg.bindBuildFlags(fs)

	var (
		format = fs.String("format", "json", "output format: json (CreateTable input) or yaml (table definitions)")
		output = fs.String("o", "", "write to file instead of stdout")
		pkg    = fs.Bool("pkg", false, "with -dir, write a schema/ subpackage embedding the definitions")
	)

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), `ddb gen - Print CreateTable requests for schema descriptor files

Usage:
  ddb gen [flags] [table...]

Flags:`)
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), `
Examples:
  ddb gen                                     # All tables in discovered *.ddb.yaml files
  ddb gen Orders > orders.json                # One table, for the AWS CLI:
  aws dynamodb create-table --cli-input-json file://orders.json
  ddb gen -format yaml -o schema_dynamodb.yaml # Resolved table definitions
  ddb gen -dir ./entities                     # Table types from Go source

Typical usage with go:generate:
  //go:generate ddb gen -dir . -pkg`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *pkg {
		if cfg.SourceDir == "" {
			return fmt.Errorf("-pkg requires -dir")
		}
		_, err := ddbgen.RunGenerate(ddbgen.GenerateOptions{Dir: cfg.SourceDir, Out: stdout})
		return err
	}

	defs, err := loadDefinitions(cfg)
	if err != nil {
		return err
	}
	defs, err = selectTables(defs, fs.Args())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch *format {
	case "yaml":
		if err := schema.EncodeDefinitions(&buf, defs); err != nil {
			return err
		}
	case "json":
		buildOpts, err := cfg.BuildOptions()
		if err != nil {
			return err
		}
		var requests []any
		for _, def := range defs {
			input := tabledef.Build(def, buildOpts...)
			if err := tabledef.Validate(input); err != nil {
				return fmt.Errorf("table %s: %w", def.Name, err)
			}
			requests = append(requests, input)
		}
		// A single request is printed bare so it can be fed to the AWS CLI.
		var v any = requests
		if len(requests) == 1 {
			v = requests[0]
		}
		data, err := cliJSON(v)
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	if *output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(*output, buf.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ddb gen: generated %s (%d tables)\n", *output, len(defs))
	return nil
}

// cliJSON marshals an SDK value the way the AWS CLI expects its JSON input:
// unset fields are omitted rather than written as null.
func cliJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.MarshalIndent(prune(generic), "", "  ")
}

func prune(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			val = prune(val)
			if isEmpty(val) {
				continue
			}
			out[k] = val
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, val := range v {
			out = append(out, prune(val))
		}
		return out
	}
	return v
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}
