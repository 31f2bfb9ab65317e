// Package tabledef turns declarative key and attribute markers into DynamoDB
// table definitions and CreateTable requests.
//
// # Struct tags
//
// Mark the table with a blank field of type Table and the keys with ddb tags:
//
//	type Order struct {
//	    _          tabledef.Table `ddb:"Orders"`
//	    CustomerID string         `dynamodbav:"CustomerId" ddb:"pk,attr"`
//	    OrderID    string         `dynamodbav:"OrderId" ddb:"sk,attr"`
//	    Status     string         `ddb:"gsi.pk=ByStatus,attr"`
//	    CreatedAt  int64          `ddb:"gsi.sk=ByStatus,lsi.sk=ByCreated,attr"`
//	    Total      float64        `ddb:"attr"`
//	}
//
//	def, err := tabledef.ExtractStruct(Order{})
//	input := tabledef.Build(def)
//
// Recognised markers are pk (alias hash), sk (alias range), gsi.pk, gsi.sk,
// lsi.sk, attr and ttl. Each takes an optional =name. For pk, sk, attr and
// ttl the name overrides the attribute name; for index markers it names the
// index. Without it the field name is used, taken from the dynamodbav tag when
// present.
//
// # Descriptors
//
// The same vocabulary is available without reflection:
//
//	def, err := tabledef.Extract(tabledef.Descriptor{
//	    TypeName: "Order",
//	    Table:    &tabledef.TableMarker{Name: "Orders"},
//	    Fields: []tabledef.Field{
//	        tabledef.String("CustomerId", tabledef.PartitionKey(), tabledef.Attribute()),
//	        tabledef.String("OrderId", tabledef.SortKey(), tabledef.Attribute()),
//	        tabledef.Number[float64]("Total", tabledef.Attribute()),
//	    },
//	})
//
// Extraction holds no cache; every call returns a fresh definition.
package tabledef
