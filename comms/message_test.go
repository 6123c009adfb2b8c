package comms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("ant-1", QueryPheromone, testPayload{From: 2, To: 5})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, QueryPheromone, msg.Performative)
	assert.Equal(t, "ant-1", msg.Sender)
	assert.Empty(t, msg.CorrelationID)

	var decoded testPayload
	require.NoError(t, msg.Decode(&decoded))
	assert.Equal(t, testPayload{From: 2, To: 5}, decoded)
}

func TestNewMessage_NilPayload(t *testing.T) {
	msg, err := NewMessage("coordinator", GetBestSolution, nil)
	require.NoError(t, err)
	assert.Empty(t, msg.Body)

	var decoded testPayload
	require.NoError(t, msg.Decode(&decoded))
	assert.Zero(t, decoded)
}

func TestReply_PreservesCorrelationID(t *testing.T) {
	req, err := NewMessage("ant-1", QueryPheromone, testPayload{From: 1, To: 2})
	require.NoError(t, err)
	req.CorrelationID = NewID()

	resp, err := req.Reply("pheromone-manager", PheromoneResponse, testPayload{From: 1, To: 2})
	require.NoError(t, err)

	assert.Equal(t, req.CorrelationID, resp.CorrelationID)
	assert.Equal(t, PheromoneResponse, resp.Performative)
	assert.Equal(t, "pheromone-manager", resp.Sender)
	assert.NotEqual(t, req.ID, resp.ID)
}

func TestDecode_Malformed(t *testing.T) {
	msg, err := NewMessage("ant-1", QueryPheromone, testPayload{From: 1, To: 2})
	require.NoError(t, err)
	msg.Body = []byte(`{"from": "not a number"`)

	var decoded testPayload
	assert.Error(t, msg.Decode(&decoded))
}
