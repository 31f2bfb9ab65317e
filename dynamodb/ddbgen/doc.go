// Package ddbgen reads table definitions straight from Go source.
//
// # Usage
//
// Mark table types with a tabledef.Table field and ddb struct tags:
//
//	type Order struct {
//	    _          tabledef.Table `ddb:"Orders"`
//	    CustomerID string         `dynamodbav:"customerId" ddb:"pk,attr"`
//	    OrderID    string         `dynamodbav:"orderId" ddb:"sk,attr"`
//	}
//
// and add a go:generate directive to the package:
//
//	//go:generate ddb gen -dir . -pkg
//
// The generator type-checks the package with golang.org/x/tools/go/packages
// and writes a schema/ subpackage holding schema_dynamodb.yaml and a
// schema_gen.go that embeds it. Discover follows the field rules of
// tabledef.DescribeStruct, so the package must build.
package ddbgen
