package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_HandleDeliversToOwner(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, nil, 3)
	hub.Register(c)
	relay := NewRedisRelay(nil, hub)

	payload, err := encodeEnvelope(3, Event{Event: EventMedicationUpdate, Data: map[string]any{"id": 1, "taken": true}})
	require.NoError(t, err)
	relay.handle(string(payload))

	assert.JSONEq(t, `{"event":"medicationUpdate","data":{"id":1,"taken":true}}`, string(<-c.send))
}

func TestRelay_HandleDropsMalformed(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, nil, 3)
	hub.Register(c)
	relay := NewRedisRelay(nil, hub)

	relay.handle("not json")
	relay.handle(`{"userId":0,"event":{"event":"x"}}`)
	relay.handle(`{"userId":3}`)

	assert.Len(t, c.send, 0)
}
