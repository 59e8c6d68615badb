package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdeck/internal/model"
)

func TestTemplatesKeepKeyOrder(t *testing.T) {
	raw := `{"zeta":{"name":"Z","items":[{"id":"a","text":"A","type":"checkbox","isRequired":true}],"isDefault":false},` +
		`"alpha":{"name":"A","items":[{"id":"n","text":"Notes","type":"observacoes"}]}}`

	templates, err := DecodeTemplates([]byte(raw))
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "zeta", templates[0].ID)
	assert.Equal(t, "alpha", templates[1].ID)
	assert.Equal(t, model.ItemObservations, templates[1].Items[0].Type)
	assert.False(t, templates[1].Items[0].IsRequired)

	out, err := EncodeTemplates(templates)
	require.NoError(t, err)
	assert.Equal(t,
		`{"zeta":{"name":"Z","items":[{"id":"a","text":"A","type":"checkbox","isRequired":true}],"isDefault":false},`+
			`"alpha":{"name":"A","items":[{"id":"n","text":"Notes","type":"observations","isRequired":false}],"isDefault":false}}`,
		string(out))
}

func TestDecodeTemplatesDuplicateKey(t *testing.T) {
	templates, err := DecodeTemplates([]byte(`{"a":{"name":"First","items":[]},"b":{"name":"B"},"a":{"name":"Second","items":[]}}`))
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Second", templates[0].Name)
	assert.NotNil(t, templates[1].Items)
}

func TestDecodeTemplatesRejectsArray(t *testing.T) {
	_, err := DecodeTemplates([]byte(`[]`))
	assert.Error(t, err)
}

func TestEncodeEmpty(t *testing.T) {
	out, err := EncodeClients(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(out))

	out, err = EncodeTemplates(nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestClientsRoundTripBytes(t *testing.T) {
	raw := `[{"id":1700000000000,"name":"Acme & Co <x>","template":"t","status":"done",` +
		`"responses":{"a":true,"b":"12"},"createdAt":"2023-11-14T22:13:20.000Z",` +
		`"completedAt":"2023-11-15T08:00:00.000Z","observationLastEdited":null}]`

	clients, err := DecodeClients([]byte(raw))
	require.NoError(t, err)

	out, err := EncodeClients(clients)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestDecodeClientsFillsDefaults(t *testing.T) {
	clients, err := DecodeClients([]byte(`[{"id":1,"name":"Old","template":"t","status":"progress"},{"id":2,"name":"Blank","template":"t"}]`))
	require.NoError(t, err)
	require.Len(t, clients, 2)

	assert.Equal(t, model.StatusInProgress, clients[0].Status)
	assert.NotNil(t, clients[0].Responses)
	assert.Nil(t, clients[0].CompletedAt)
	assert.Equal(t, model.StatusTodo, clients[1].Status)
}

func TestDecodeClientsBlankTimestamps(t *testing.T) {
	raw := `[{"id":1,"name":"Acme","template":"t","status":"todo","responses":{},` +
		`"createdAt":"2023-11-14T22:13:20.000Z","completedAt":"","observationLastEdited":""},` +
		`{"id":2,"name":"Beta","template":"t","status":"todo","responses":{},` +
		`"createdAt":"2023-11-14T22:13:20.000Z","completedAt":false,"observationLastEdited":0}]`

	clients, err := DecodeClients([]byte(raw))
	require.NoError(t, err)
	require.Len(t, clients, 2)
	for _, c := range clients {
		assert.Nil(t, c.CompletedAt, c.Name)
		assert.Nil(t, c.ObservationLastEdited, c.Name)
	}

	out, err := EncodeClients(clients[:1])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"completedAt":null,"observationLastEdited":null`)
}

// Legacy numeric answers and second-precision timestamps are rewritten in
// the canonical form on the next save.
func TestDecodeClientsNormalisesLegacyValues(t *testing.T) {
	raw := `[{"id":1,"name":"Acme","template":"t","status":"todo","responses":{"n":5},` +
		`"createdAt":"2023-11-14T22:13:20Z","completedAt":null,"observationLastEdited":null}]`

	clients, err := DecodeClients([]byte(raw))
	require.NoError(t, err)

	out, err := EncodeClients(clients)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"name":"Acme","template":"t","status":"todo","responses":{"n":"5"},`+
		`"createdAt":"2023-11-14T22:13:20.000Z","completedAt":null,"observationLastEdited":null}]`, string(out))
}

func TestDecodeClientsEmpty(t *testing.T) {
	clients, err := DecodeClients([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}
