package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/acksell/ddbtable/dynamodb/ddbui"
)

func runUI(ctx context.Context, args []string, stdout, stderr io.Writer, cfg Config) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	cfg.bindSchemaFlags(fs)
	cfg.bindTargetFlags(fs)
	cfg.bindBuildFlags(fs)

	var (
		addr    = fs.String("addr", ":8080", "address to listen on")
		verbose = fs.Bool("v", false, "log BadgerDB output for the local catalog")
	)

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), `ddb ui - Serve the table catalog API

Usage:
  ddb ui [flags]

Flags:`)
		fs.PrintDefaults()
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

	logger := newLogger(stderr)
	t, err := openTarget(ctx, cfg, logger, *verbose)
	if err != nil {
		return err
	}
	defer t.close()

	srv := ddbui.NewServer(ddbui.ServerConfig{
		Addr:         *addr,
		Logger:       logger,
		BuildOptions: buildOpts,
	}, t.client, defs)
	return srv.Run(ctx, stdout)
}
