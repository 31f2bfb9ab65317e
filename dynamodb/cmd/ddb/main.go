// ddb turns DynamoDB table schemas declared in YAML descriptor files into
// CreateTable requests, and submits them to AWS or a local catalog.
//
// # Installation
//
//	go install github.com/acksell/ddbtable/dynamodb/cmd/ddb@latest
//
// # Commands
//
//	ddb gen       Print CreateTable requests (JSON) or resolved definitions (YAML)
//	ddb create    Create the tables
//	ddb describe  Describe a table
//	ddb list      List tables
//	ddb delete    Delete tables
//	ddb ui        Serve the table catalog API over HTTP
//
// # Quick Start
//
// Describe a table in orders.ddb.yaml:
//
//	types:
//	  - name: Order
//	    table: Orders
//	    fields:
//	      - {name: CustomerId, type: string, ddb: "pk,attr"}
//	      - {name: OrderId, type: string, ddb: "sk,attr"}
//
// Then:
//
//	ddb gen                 # inspect the request
//	ddb create -db ./data   # create it in the local catalog
//	ddb create              # create it in AWS
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	cmd, args := args[0], args[1:]

	var err error
	switch cmd {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	case "version", "--version":
		fmt.Fprintf(stdout, "ddb version %s\n", version)
		return 0
	case "gen", "generate", "create", "describe", "list", "ls", "delete", "ui":
		var cfg Config
		cfg, err = LoadConfig(".")
		if err != nil {
			break
		}
		switch cmd {
		case "gen", "generate":
			err = runGen(args, stdout, cfg)
		case "create":
			err = runCreate(ctx, args, stdout, stderr, cfg)
		case "describe":
			err = runDescribe(ctx, args, stdout, stderr, cfg)
		case "list", "ls":
			err = runList(ctx, args, stdout, stderr, cfg)
		case "delete":
			err = runDelete(ctx, args, stdout, stderr, cfg)
		case "ui":
			err = runUI(ctx, args, stdout, stderr, cfg)
		}
	default:
		fmt.Fprintf(stderr, "ddb: unknown command %q\n\n", cmd)
		printUsage(stderr)
		return 1
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "ddb %s: %v\n", cmd, err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `ddb - DynamoDB table definitions

Usage:
  ddb <command> [flags]

Commands:
  gen       Print CreateTable requests (JSON) or resolved definitions (YAML)
  create    Create tables in AWS or the local catalog
  describe  Describe a table
  list      List tables
  delete    Delete tables
  ui        Serve the table catalog API over HTTP
  version   Print the version

Examples:
  ddb gen Orders > orders.json
  ddb create -db ./data
  ddb create -region eu-north-1 -ensure
  ddb describe -db ./data Orders
  ddb ui -db ./data -addr :8080

Configuration (optional):
  Create ddb.yaml for defaults; flags override it:

    schemaPattern: schema/*.ddb.yaml
    dataDir: ./data              # local catalog; omit to use AWS
    region: eu-north-1
    billingMode: PAY_PER_REQUEST
    projection: ALL

Run 'ddb <command> -h' for more information on a command.`)
}
