package relay

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"OpenSketch/internal/wire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser-style clients connect cross-origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server bundles the hub with its HTTP surface.
type Server struct {
	hub *Hub
}

// NewServer creates a relay server and starts its hub loop.
func NewServer() *Server {
	s := &Server{hub: NewHub()}
	go s.hub.Run()
	return s
}

// Router returns the relay's routes: the websocket endpoint at / (room id
// via the roomId query parameter) and the health check at /health.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/", s.serveWS)
	return CORS(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		roomID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[RELAY] upgrade failed: %v", err)
		return
	}

	c := &client{roomID: roomID, send: make(chan []byte, 256)}
	s.hub.join <- c

	// Write pump.
	go func() {
		for data := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				break
			}
		}
		conn.Close()
	}()

	// Read pump. Malformed messages are dropped silently and the
	// connection stays open; only socket errors end the session.
	defer func() {
		s.hub.leave <- c
		conn.Close()
	}()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wire.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case wire.TypeInitScene, wire.TypeSceneUpdate:
			s.hub.frames <- frame{from: c, msg: msg}
		}
	}
}
