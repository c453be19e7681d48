package nats

import (
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	natsserver "github.com/nats-io/nats-server/v2/test"
)

const testNatsPort = 8370

var testNatsURL = "nats://127.0.0.1:8370"

func TestMain(m *testing.M) {
	opts := natsserver.DefaultTestOptions
	opts.Port = testNatsPort
	server := natsserver.RunServer(&opts)
	code := m.Run()
	server.Shutdown()
	os.Exit(code)
}

func TestNewClient_InvalidURL(t *testing.T) {
	client, err := NewClient("nats://127.0.0.1:1", nats.Timeout(200*time.Millisecond), nats.NoReconnect())

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to NATS server")
}

func TestPublishSubscribe(t *testing.T) {
	client, err := NewClient(testNatsURL)
	require.NoError(t, err)
	defer client.Close()

	received := make(chan []byte, 1)
	sub, err := client.Subscribe("booking.accepted", func(msg *nats.Msg) {
		received <- msg.Data
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, client.Publish("booking.accepted", []byte(`{"ok":true}`)))

	select {
	case data := <-received:
		assert.JSONEq(t, `{"ok":true}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestPing(t *testing.T) {
	client, err := NewClient(testNatsURL)
	require.NoError(t, err)

	assert.NoError(t, client.Ping(time.Second))
	assert.NotNil(t, client.GetConn())

	client.Close()
	assert.Error(t, client.Ping(time.Second))
}
