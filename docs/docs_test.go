package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocDescribesRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath    string                                `json:"basePath"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths["/annonces"], "get")
	assert.Contains(t, doc.Paths["/annonces"], "post")
	assert.Contains(t, doc.Paths["/auth/verify"], "post")
	assert.Contains(t, doc.Paths["/notifications/stream"], "get")
	assert.Contains(t, doc.Paths["/admin/users/{id}/role"], "put")
	assert.Contains(t, doc.Definitions, "store.AnnonceView")
	assert.Contains(t, doc.Definitions, "handler.PaginatedResponse-store_ProfileView")
}
