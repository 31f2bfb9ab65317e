package main

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func runCreate(ctx context.Context, args []string, stdout, stderr io.Writer, cfg Config) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	cfg.bindSchemaFlags(fs)
	cfg.bindTargetFlags(fs)
	cfg.bindBuildFlags(fs)

	var (
		ensure  = fs.Bool("ensure", false, "skip tables that already exist instead of failing")
		verbose = fs.Bool("v", false, "log BadgerDB output for the local catalog")
	)

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), `ddb create - Create tables from schema descriptor files

Usage:
  ddb create [flags] [table...]

Without -db the tables are created in the AWS account of the current
credentials; the account is printed before anything is created.

Flags:`)
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), `
Examples:
  ddb create -db ./data                # Local catalog
  ddb create -endpoint http://localhost:8000 -ensure
  ddb create -region eu-north-1 Orders`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	buildOpts, err := cfg.BuildOptions()
	if err != nil {
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

	logger := newLogger(stderr)
	t, err := openTarget(ctx, cfg, logger, *verbose)
	if err != nil {
		return err
	}
	defer t.close()

	if t.remote {
		id, err := t.client.CallerIdentity(ctx)
		if err != nil {
			return err
		}
		logger.Printf("using %s", id)
	}

	for _, def := range defs {
		if *ensure {
			created, err := t.client.EnsureTable(ctx, def, buildOpts...)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(stdout, "created %s\n", def.Name)
			} else {
				fmt.Fprintf(stdout, "exists  %s\n", def.Name)
			}
			continue
		}
		if _, err := t.client.CreateTable(ctx, def, buildOpts...); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "created %s\n", def.Name)
	}
	return nil
}
