package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForClients(t *testing.T, b *Broadcaster, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (have %d)", want, b.ClientCount())
}

func TestBroadcastToClient(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, b, 1)

	sent := SpectrumFrame{
		Seq:        7,
		Bins:       4,
		SampleRate: 48000,
		Spectrum:   []float64{0.1, 0.2, 0.3, 0.4},
	}
	require.NoError(t, b.Send(sent))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var got SpectrumFrame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, sent, got)
}

func TestClientDisconnectIsNoticed(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	waitForClients(t, b, 1)
	conn.Close()
	waitForClients(t, b, 0)
}

func TestSendNeverBlocks(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	// No clients and a bounded queue: flooding must not block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			b.Send(SpectrumFrame{Seq: uint64(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Send blocked with a full broadcast queue")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}
