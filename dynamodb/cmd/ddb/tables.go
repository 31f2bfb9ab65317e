package main

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func runDescribe(ctx context.Context, args []string, stdout, stderr io.Writer, cfg Config) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	cfg.bindTargetFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage:\n  ddb describe [flags] <table>\n\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one table name")
	}

	t, err := openTarget(ctx, cfg, newLogger(stderr), false)
	if err != nil {
		return err
	}
	defer t.close()

	info, err := t.client.DescribeTable(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	data, err := cliJSON(info)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\n", data)
	return err
}

func runList(ctx context.Context, args []string, stdout, stderr io.Writer, cfg Config) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	cfg.bindTargetFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage:\n  ddb list [flags]\n\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := openTarget(ctx, cfg, newLogger(stderr), false)
	if err != nil {
		return err
	}
	defer t.close()

	names, err := t.client.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return nil
}

func runDelete(ctx context.Context, args []string, stdout, stderr io.Writer, cfg Config) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	cfg.bindTargetFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage:\n  ddb delete [flags] <table>...\n\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("expected at least one table name")
	}

	t, err := openTarget(ctx, cfg, newLogger(stderr), false)
	if err != nil {
		return err
	}
	defer t.close()

	for _, name := range fs.Args() {
		if err := t.client.DeleteTable(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted %s\n", name)
	}
	return nil
}
