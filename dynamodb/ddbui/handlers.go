package ddbui

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/acksell/ddbtable/dynamodb/ddbsdk"
	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-chi/chi/v5"
)

// APIHandler serves the schema and catalog endpoints.
type APIHandler struct {
	client    *ddbsdk.Client
	defs      []table.TableDefinition
	byName    map[string]table.TableDefinition
	buildOpts []tabledef.BuildOption
}

// NewAPIHandler creates a handler for defs. Tables are created and inspected
// through client; buildOpts apply to every CreateTable request it builds.
func NewAPIHandler(client *ddbsdk.Client, defs []table.TableDefinition, buildOpts ...tabledef.BuildOption) *APIHandler {
	byName := make(map[string]table.TableDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	return &APIHandler{
		client:    client,
		defs:      defs,
		byName:    byName,
		buildOpts: buildOpts,
	}
}

// RegisterRoutes registers all API routes on r.
func (h *APIHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/schema", h.listDefinitions)
		r.Get("/schema/{table}", h.getDefinition)
		r.Get("/schema/{table}/create-input", h.getCreateInput)
		r.Post("/schema/{table}/key", h.projectKey)

		r.Get("/tables", h.listTables)
		r.Get("/tables/{table}", h.describeTable)
		r.Post("/tables/{table}", h.createTable)
		r.Delete("/tables/{table}", h.deleteTable)
	})
}

func (h *APIHandler) listDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tables": h.defs})
}

func (h *APIHandler) getDefinition(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// getCreateInput returns the CreateTable request for a definition, after
// validating it the way DynamoDB would.
func (h *APIHandler) getCreateInput(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}
	input := tabledef.Build(def, h.buildOpts...)
	if err := tabledef.Validate(input); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, input)
}

// projectKey returns the key attributes of the JSON item in the request body,
// for the table or for the index named by the index query parameter.
func (h *APIHandler) projectKey(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}
	keys := def.KeyDefinitions
	index := r.URL.Query().Get("index")
	if index != "" {
		if gsi, ok := def.GSI(index); ok {
			keys = gsi.KeyDefinitions
		} else if lsi, ok := def.LSI(index); ok {
			keys = lsi.KeyDefinitions(def.KeyDefinitions)
		} else {
			writeError(w, http.StatusNotFound, "no index "+index+" on table "+def.Name)
			return
		}
	}

	var item map[string]any
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "decoding item: "+err.Error())
		return
	}
	key, err := keys.KeyOf(item)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var plain map[string]any
	if err := attributevalue.UnmarshalMap(key, &plain); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	kinds := make(map[string]table.KeyKind, len(key))
	for name, v := range key {
		switch v.(type) {
		case *types.AttributeValueMemberS:
			kinds[name] = table.KeyKindS
		case *types.AttributeValueMemberN:
			kinds[name] = table.KeyKindN
		case *types.AttributeValueMemberB:
			kinds[name] = table.KeyKindB
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table": def.Name,
		"index": index,
		"key":   plain,
		"kinds": kinds,
	})
}

func (h *APIHandler) listTables(w http.ResponseWriter, r *http.Request) {
	names, err := h.client.ListTables(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": mergeCatalog(h.defs, names)})
}

func (h *APIHandler) describeTable(w http.ResponseWriter, r *http.Request) {
	info, err := h.client.DescribeTable(r.Context(), chi.URLParam(r, "table"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// createTable creates a table from its definition. An existing table is not
// an error; the response status tells the two cases apart.
func (h *APIHandler) createTable(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}
	created, err := h.client.EnsureTable(r.Context(), def, h.buildOpts...)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	info, err := h.client.DescribeTable(r.Context(), def.Name)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, info)
}

func (h *APIHandler) deleteTable(w http.ResponseWriter, r *http.Request) {
	if err := h.client.DeleteTable(r.Context(), chi.URLParam(r, "table")); err != nil {
		writeAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) definition(w http.ResponseWriter, r *http.Request) (table.TableDefinition, bool) {
	name := chi.URLParam(r, "table")
	def, ok := h.byName[name]
	if !ok {
		writeError(w, http.StatusNotFound, "no definition for table: "+name)
	}
	return def, ok
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeAPIError maps DynamoDB exceptions to HTTP statuses.
func writeAPIError(w http.ResponseWriter, err error) {
	var (
		notFound *types.ResourceNotFoundException
		inUse    *types.ResourceInUseException
	)
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &inUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, tabledef.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
