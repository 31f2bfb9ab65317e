// Package ddbui serves a small HTTP API for inspecting table definitions and
// the tables that exist in a catalog, either the local ddbstore catalog or
// DynamoDB itself.
//
// # Usage
//
// Start the server through the ddb CLI:
//
//	ddb ui -db ./data -addr :8080
//
// Routes:
//
//	GET    /api/schema                      resolved table definitions
//	GET    /api/schema/{table}              one definition
//	GET    /api/schema/{table}/create-input the CreateTable request for it
//	GET    /api/tables                      catalog tables, matched against the schema
//	GET    /api/tables/{table}              DescribeTable and DescribeTimeToLive
//	POST   /api/tables/{table}              create the table from its definition
//	DELETE /api/tables/{table}              delete the table
package ddbui
