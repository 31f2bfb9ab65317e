package ddbui

import (
	"sort"

	"github.com/acksell/ddbtable/dynamodb/table"
)

// TableSummary is the listing entry for one table.
type TableSummary struct {
	Name         string        `json:"name"`
	PartitionKey table.KeyDef  `json:"partitionKey"`
	SortKey      *table.KeyDef `json:"sortKey,omitempty"`
	GSICount     int           `json:"gsiCount"`
	LSICount     int           `json:"lsiCount"`
	TimeToLive   string        `json:"timeToLive,omitempty"`

	// InSchema is false for catalog tables no definition describes.
	InSchema bool `json:"inSchema"`
	// Exists reports whether the table is present in the catalog.
	Exists bool `json:"exists"`
}

func summarize(def table.TableDefinition) TableSummary {
	s := TableSummary{
		Name:         def.Name,
		PartitionKey: def.KeyDefinitions.PartitionKey,
		GSICount:     len(def.GSIs),
		LSICount:     len(def.LSIs),
		TimeToLive:   def.TimeToLiveKey,
		InSchema:     true,
	}
	if def.KeyDefinitions.HasSortKey() {
		sk := *def.KeyDefinitions.SortKey
		s.SortKey = &sk
	}
	return s
}

// mergeCatalog lists every defined table, marking the ones present in the
// catalog, followed by catalog tables with no definition. The result is
// sorted by name.
func mergeCatalog(defs []table.TableDefinition, existing []string) []TableSummary {
	exists := make(map[string]bool, len(existing))
	for _, name := range existing {
		exists[name] = true
	}

	summaries := make([]TableSummary, 0, len(defs)+len(existing))
	defined := make(map[string]bool, len(defs))
	for _, def := range defs {
		s := summarize(def)
		s.Exists = exists[def.Name]
		summaries = append(summaries, s)
		defined[def.Name] = true
	}
	for _, name := range existing {
		if !defined[name] {
			summaries = append(summaries, TableSummary{Name: name, Exists: true})
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}
