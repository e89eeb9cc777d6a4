package stream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/audiolens/spectro/logging"
)

// SpectrumFrame is one analyzed block published to visualizer clients
type SpectrumFrame struct {
	Seq        uint64    `json:"seq"`
	Bins       int       `json:"bins"`
	SampleRate int       `json:"sample_rate"`
	Spectrum   []float64 `json:"spectrum"`
}

// Broadcaster fans spectrum frames out to connected WebSocket clients.
// Frames are dropped rather than blocking the producer when the
// broadcast queue is full.
type Broadcaster struct {
	upgrader  websocket.Upgrader
	logger    logging.Logger
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan any
	done      chan struct{}
	closeOnce sync.Once
	server    *http.Server
}

// NewBroadcaster creates a broadcaster and starts its fan-out loop
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logging.WithFields(logging.Fields{
			"component": "spectrum_broadcaster",
		}),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, 256),
		done:      make(chan struct{}),
	}

	go b.run()
	return b
}

// Handler upgrades HTTP connections to WebSocket and registers them
// for broadcasts
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.logger.Error(err, "websocket upgrade failed")
			return
		}

		b.clientsMu.Lock()
		b.clients[conn] = true
		total := len(b.clients)
		b.clientsMu.Unlock()
		b.logger.Info("client connected", logging.Fields{"total": total})

		// The read loop exists only to notice the client going away
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					b.remove(conn)
					return
				}
			}
		}()
	}
}

// Serve starts an HTTP server exposing the broadcaster at /ws
func (b *Broadcaster) Serve(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.Handler())

	b.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		b.logger.Info("websocket server listening", logging.Fields{"addr": addr})
		if err := b.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			b.logger.Error(err, "websocket server stopped")
		}
	}()
}

// Send queues a frame for broadcast, dropping it if the queue is full
func (b *Broadcaster) Send(frame any) error {
	select {
	case b.broadcast <- frame:
	default:
		// Queue full; visualization frames are disposable
	}
	return nil
}

// ClientCount returns the number of connected clients
func (b *Broadcaster) ClientCount() int {
	b.clientsMu.Lock()
	defer b.clientsMu.Unlock()
	return len(b.clients)
}

// Close stops the fan-out loop, disconnects all clients and shuts down
// the HTTP server if one was started
func (b *Broadcaster) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)

		b.clientsMu.Lock()
		for conn := range b.clients {
			conn.Close()
		}
		b.clients = make(map[*websocket.Conn]bool)
		b.clientsMu.Unlock()

		if b.server != nil {
			b.server.Close()
		}
	})
	return nil
}

func (b *Broadcaster) run() {
	for {
		select {
		case <-b.done:
			return
		case frame := <-b.broadcast:
			b.clientsMu.Lock()
			for conn := range b.clients {
				if err := conn.WriteJSON(frame); err != nil {
					conn.Close()
					delete(b.clients, conn)
					b.logger.Warn("dropping client after write failure", logging.Fields{
						"error": err.Error(),
					})
				}
			}
			b.clientsMu.Unlock()
		}
	}
}

func (b *Broadcaster) remove(conn *websocket.Conn) {
	b.clientsMu.Lock()
	if b.clients[conn] {
		delete(b.clients, conn)
		conn.Close()
	}
	total := len(b.clients)
	b.clientsMu.Unlock()
	b.logger.Info("client disconnected", logging.Fields{"total": total})
}
