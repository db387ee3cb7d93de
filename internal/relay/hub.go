// Package relay is the room server: it groups websocket participants by
// room id, remembers the last scene any member sent, and fans scene
// updates out to the rest of the room. It performs no merge and keeps no
// state beyond a room's lifetime; the most recent update wins.
package relay

import (
	"encoding/json"
	"log"

	"OpenSketch/internal/wire"
)

type client struct {
	roomID string
	send   chan []byte
}

type room struct {
	id      string
	scene   json.RawMessage // last scene received, stored verbatim
	clients map[*client]bool
}

type frame struct {
	from *client
	msg  wire.Message
}

// Hub owns all rooms. A single Run loop serializes membership changes
// and broadcasts, so no two broadcasts for the same room can interleave
// and a departing member can never receive a stale scene.
type Hub struct {
	rooms  map[string]*room
	join   chan *client
	leave  chan *client
	frames chan frame
}

// NewHub creates an empty hub; call Run on its own goroutine.
func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]*room),
		join:   make(chan *client),
		leave:  make(chan *client),
		frames: make(chan frame),
	}
}

// Run processes hub events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.join:
			h.handleJoin(c)
		case c := <-h.leave:
			h.handleLeave(c)
		case f := <-h.frames:
			h.handleFrame(f)
		}
	}
}

func (h *Hub) handleJoin(c *client) {
	r, ok := h.rooms[c.roomID]
	if !ok {
		r = &room{id: c.roomID, clients: make(map[*client]bool)}
		h.rooms[c.roomID] = r
	}
	r.clients[c] = true
	log.Printf("[RELAY] client joined room %s (%d)", r.id, len(r.clients))

	// ROOM_JOINED goes out exactly once, immediately after the join,
	// carrying the room's current scene or null when none exists yet.
	joined, err := json.Marshal(wire.Message{
		Type:   wire.TypeRoomJoined,
		RoomID: r.id,
		Scene:  r.scene,
	})
	if err != nil {
		return
	}
	h.sendTo(r, c, joined)
}

func (h *Hub) handleLeave(c *client) {
	r, ok := h.rooms[c.roomID]
	if !ok {
		return
	}
	if _, ok := r.clients[c]; !ok {
		return
	}
	delete(r.clients, c)
	close(c.send)
	log.Printf("[RELAY] client left room %s", r.id)

	// Rooms hold no durable state: empty means gone.
	if len(r.clients) == 0 {
		delete(h.rooms, r.id)
		log.Printf("[RELAY] room %s destroyed", r.id)
	}
}

func (h *Hub) handleFrame(f frame) {
	r, ok := h.rooms[f.from.roomID]
	if !ok {
		return
	}

	switch f.msg.Type {
	case wire.TypeInitScene:
		r.scene = f.msg.Scene

	case wire.TypeSceneUpdate:
		r.scene = f.msg.Scene
		out, err := json.Marshal(wire.Message{
			Type:  wire.TypeSceneUpdate,
			Scene: f.msg.Scene,
		})
		if err != nil {
			return
		}
		for c := range r.clients {
			if c != f.from {
				h.sendTo(r, c, out)
			}
		}
	}
}

// sendTo queues data on a client's send channel; a client too slow to
// drain its buffer is dropped rather than allowed to stall the room.
func (h *Hub) sendTo(r *room, c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		delete(r.clients, c)
		close(c.send)
		if len(r.clients) == 0 {
			delete(h.rooms, r.id)
		}
	}
}
