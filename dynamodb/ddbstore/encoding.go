package ddbstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Catalog keys have the form table/<name>. Table names only contain
// [a-zA-Z0-9_.-], so byte order over the keys is the lexical order of names.
const tablePrefix = "table/"

// Local tables get a fixed region and account in their ARNs.
const arnPrefix = "arn:aws:dynamodb:ddb-local:000000000000:table/"

func tableKey(name string) []byte {
	return []byte(tablePrefix + name)
}

func tableNameFromKey(key []byte) string {
	return strings.TrimPrefix(string(key), tablePrefix)
}

// tableRecord is what the catalog persists per table. Everything DescribeTable
// returns is derived from it.
type tableRecord struct {
	Definition     table.TableDefinition       `json:"definition"`
	BillingMode    types.BillingMode           `json:"billingMode"`
	ReadCapacity   int64                       `json:"readCapacity,omitempty"`
	WriteCapacity  int64                       `json:"writeCapacity,omitempty"`
	Projections    map[string]projectionRecord `json:"projections,omitempty"`
	TableClass     types.TableClass            `json:"tableClass,omitempty"`
	StreamViewType types.StreamViewType        `json:"streamViewType,omitempty"`
	Status         types.TableStatus           `json:"status"`
	CreatedAt      time.Time                   `json:"createdAt"`
	TTLEnabled     bool                        `json:"ttlEnabled,omitempty"`
}

type projectionRecord struct {
	Type             types.ProjectionType `json:"type"`
	NonKeyAttributes []string             `json:"nonKeyAttributes,omitempty"`
}

func encodeRecord(rec *tableRecord) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode table %s: %w", rec.Definition.Name, err)
	}
	return b, nil
}

func decodeRecord(val []byte) (*tableRecord, error) {
	var rec tableRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("decode table record: %w", err)
	}
	return &rec, nil
}

func newProjectionRecord(p *types.Projection) projectionRecord {
	if p == nil || p.ProjectionType == "" {
		return projectionRecord{Type: types.ProjectionTypeAll}
	}
	return projectionRecord{Type: p.ProjectionType, NonKeyAttributes: p.NonKeyAttributes}
}

func (p projectionRecord) projection() *types.Projection {
	return &types.Projection{
		ProjectionType:   p.Type,
		NonKeyAttributes: append([]string(nil), p.NonKeyAttributes...),
	}
}

func tableARN(name string) string {
	return arnPrefix + name
}

func (r *tableRecord) throughput() *types.ProvisionedThroughputDescription {
	return &types.ProvisionedThroughputDescription{
		ReadCapacityUnits:      aws.Int64(r.ReadCapacity),
		WriteCapacityUnits:     aws.Int64(r.WriteCapacity),
		NumberOfDecreasesToday: aws.Int64(0),
	}
}

// describe renders the record the way DynamoDB's DescribeTable does. The
// catalog holds no items, so counts and sizes are always zero.
func (r *tableRecord) describe() *types.TableDescription {
	def := r.Definition
	arn := tableARN(def.Name)
	desc := &types.TableDescription{
		TableName:             aws.String(def.Name),
		TableArn:              aws.String(arn),
		TableStatus:           r.Status,
		CreationDateTime:      aws.Time(r.CreatedAt),
		KeySchema:             tabledef.KeySchema(def.KeyDefinitions),
		AttributeDefinitions:  tabledef.AttributeDefinitions(def.Attributes),
		BillingModeSummary:    &types.BillingModeSummary{BillingMode: r.BillingMode},
		ProvisionedThroughput: r.throughput(),
		ItemCount:             aws.Int64(0),
		TableSizeBytes:        aws.Int64(0),
	}

	for _, gsi := range def.GSIs {
		desc.GlobalSecondaryIndexes = append(desc.GlobalSecondaryIndexes, types.GlobalSecondaryIndexDescription{
			IndexName:             aws.String(gsi.Name),
			IndexArn:              aws.String(arn + "/index/" + gsi.Name),
			IndexStatus:           types.IndexStatusActive,
			KeySchema:             tabledef.KeySchema(gsi.KeyDefinitions),
			Projection:            r.Projections[gsi.Name].projection(),
			ProvisionedThroughput: r.throughput(),
			ItemCount:             aws.Int64(0),
			IndexSizeBytes:        aws.Int64(0),
		})
	}
	for _, lsi := range def.LSIs {
		desc.LocalSecondaryIndexes = append(desc.LocalSecondaryIndexes, types.LocalSecondaryIndexDescription{
			IndexName:      aws.String(lsi.Name),
			IndexArn:       aws.String(arn + "/index/" + lsi.Name),
			KeySchema:      tabledef.KeySchema(lsi.KeyDefinitions(def.KeyDefinitions)),
			Projection:     r.Projections[lsi.Name].projection(),
			ItemCount:      aws.Int64(0),
			IndexSizeBytes: aws.Int64(0),
		})
	}

	if r.TableClass != "" {
		desc.TableClassSummary = &types.TableClassSummary{TableClass: r.TableClass}
	}
	if r.StreamViewType != "" {
		desc.StreamSpecification = &types.StreamSpecification{
			StreamEnabled:  aws.Bool(true),
			StreamViewType: r.StreamViewType,
		}
		desc.LatestStreamLabel = aws.String(r.CreatedAt.UTC().Format("2006-01-02T15:04:05.000"))
		desc.LatestStreamArn = aws.String(arn + "/stream/" + *desc.LatestStreamLabel)
	}
	return desc
}

func (r *tableRecord) timeToLive() *types.TimeToLiveDescription {
	if !r.TTLEnabled {
		return &types.TimeToLiveDescription{TimeToLiveStatus: types.TimeToLiveStatusDisabled}
	}
	return &types.TimeToLiveDescription{
		AttributeName:    aws.String(r.Definition.TimeToLiveKey),
		TimeToLiveStatus: types.TimeToLiveStatusEnabled,
	}
}
