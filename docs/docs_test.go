package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Info  map[string]interface{} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, SwaggerInfo.Title, parsed.Info["title"])
	assert.Contains(t, parsed.Paths, "/api/tournaments/{tournamentID}/bracket")
	assert.Contains(t, parsed.Paths, "/api/tournaments/{tournamentID}/matches")
}
