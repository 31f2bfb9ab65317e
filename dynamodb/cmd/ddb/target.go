package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/acksell/ddbtable/dynamodb/ddbgen"
	"github.com/acksell/ddbtable/dynamodb/ddbsdk"
	"github.com/acksell/ddbtable/dynamodb/ddbstore"
	"github.com/acksell/ddbtable/dynamodb/schema"
	"github.com/acksell/ddbtable/dynamodb/table"
)

// target is where create, describe, list and delete send their requests:
// the local catalog when a data directory is configured, AWS otherwise.
type target struct {
	client *ddbsdk.Client
	remote bool
	close  func() error
}

func openTarget(ctx context.Context, cfg Config, logger *log.Logger, verbose bool) (*target, error) {
	if cfg.DataDir != "" {
		opts := ddbstore.StoreOptions{Path: cfg.DataDir}
		if verbose {
			opts.Logger = ddbstore.NewLogger(logger)
		}
		store, err := ddbstore.New(opts)
		if err != nil {
			return nil, fmt.Errorf("opening local catalog: %w", err)
		}
		return &target{
			client: ddbsdk.New(store, ddbsdk.WithLogger(logger)),
			close:  store.Close,
		}, nil
	}

	client, err := ddbsdk.NewFromConfig(ctx, ddbsdk.Config{
		Region:   cfg.Region,
		Endpoint: cfg.Endpoint,
		Profile:  cfg.Profile,
	}, ddbsdk.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &target{
		client: client,
		remote: cfg.Endpoint == "",
		close:  func() error { return nil },
	}, nil
}

// loadDefinitions reads the schema descriptor files selected by cfg and
// resolves their table definitions.
func loadDefinitions(cfg Config) ([]table.TableDefinition, error) {
	var (
		f   *schema.File
		err error
	)
	switch {
	case cfg.SourceDir != "":
		var result *ddbgen.DiscoverResult
		result, err = ddbgen.Discover(cfg.SourceDir)
		if err != nil {
			return nil, err
		}
		f = &result.File
	case cfg.SchemaPattern != "":
		f, err = schema.Load(cfg.SchemaPattern)
	default:
		var files []string
		files, err = DiscoverSchemas(".")
		if err != nil {
			return nil, fmt.Errorf("discovering schema files: %w", err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no *%s files found; pass -schema", schemaSuffix)
		}
		f, err = schema.LoadFiles(files...)
	}
	if err != nil {
		return nil, err
	}
	return f.Definitions()
}

// selectTables keeps the definitions named in names, in the order given. An
// empty names selects everything.
func selectTables(defs []table.TableDefinition, names []string) ([]table.TableDefinition, error) {
	if len(names) == 0 {
		return defs, nil
	}
	byName := make(map[string]table.TableDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	selected := make([]table.TableDefinition, 0, len(names))
	for _, name := range names {
		def, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("table %q not found in schema files", name)
		}
		selected = append(selected, def)
	}
	return selected, nil
}

func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.New(w, "ddb: ", 0)
}
