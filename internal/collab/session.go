// Package collab bridges the local scene to the room relay: it owns the
// websocket session, debounces outbound scene updates, and hands inbound
// scenes to the document layer.
package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"OpenSketch/internal/scene"
	"OpenSketch/internal/wire"
)

// State is the connection lifecycle of a session.
type State int

const (
	Disconnected State = iota
	Connecting
	Joined
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Joined:
		return "joined"
	default:
		return "disconnected"
	}
}

// SendDebounce coalesces rapid local edits: only the newest scene within
// the window is ever sent.
const SendDebounce = 100 * time.Millisecond

// writeTimeout bounds one websocket write so a stalled peer surfaces as
// a broken connection instead of a wedged sender.
const writeTimeout = 10 * time.Second

// Session is one owned connection to a relay room. Create with
// NewSession, connect with Connect, and hand every local mutation to
// QueueUpdate. Callbacks run on the session's read goroutine.
type Session struct {
	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	state   State
	roomID  string
	timer   *time.Timer
	pending *scene.Scene

	// OnRemoteScene receives every inbound scene (ROOM_JOINED with a
	// non-null scene, and SCENE_UPDATE). The receiver replaces the local
	// document wholesale, bypassing history.
	OnRemoteScene func(sc scene.Scene)
	// OnState observes lifecycle transitions, e.g. to surface an
	// offline indicator.
	OnState func(st State)
}

// NewSession returns a disconnected session.
func NewSession() *Session {
	return &Session{}
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RoomID returns the joined room id, or "" before joining.
func (s *Session) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	if s.state == st {
		s.mu.Unlock()
		return
	}
	s.state = st
	cb := s.OnState
	s.mu.Unlock()
	if cb != nil {
		cb(st)
	}
}

// Connect dials the relay, joins the room, and sends INIT_SCENE carrying
// the full local scene. serverURL is a ws:// or wss:// base URL. A
// failed dial leaves the session Disconnected and the local document
// untouched.
func (s *Session) Connect(ctx context.Context, serverURL, roomID string, local scene.Scene) error {
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return fmt.Errorf("session already connected to room %q", s.roomID)
	}
	s.mu.Unlock()

	s.setState(Connecting)

	u, err := url.Parse(serverURL)
	if err != nil {
		s.setState(Disconnected)
		return fmt.Errorf("bad relay url: %w", err)
	}
	q := u.Query()
	q.Set("roomId", roomID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		s.setState(Disconnected)
		return fmt.Errorf("dial relay: %w", err)
	}

	payload, err := wire.EncodeScene(local)
	if err != nil {
		conn.Close()
		s.setState(Disconnected)
		return fmt.Errorf("encode scene: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.roomID = roomID
	s.mu.Unlock()

	if err := s.write(wire.Message{Type: wire.TypeInitScene, Scene: payload}); err != nil {
		s.Close()
		return fmt.Errorf("send INIT_SCENE: %w", err)
	}

	s.setState(Joined)
	log.Printf("[SYNC] joined room %s", roomID)
	go s.readLoop(conn)
	return nil
}

// write serializes websocket writes; gorilla allows one concurrent
// writer only. The write mutex is held across WriteJSON itself so a
// stalled send and the next debounce timer can never write at once.
func (s *Session) write(msg wire.Message) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}

func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		var msg wire.Message
		if err := conn.ReadJSON(&msg); err != nil {
			// Unparseable frames are dropped silently and the connection
			// stays open; socket errors end the loop. The local scene is
			// never touched on either failure path.
			var syn *json.SyntaxError
			var typ *json.UnmarshalTypeError
			if errors.As(err, &syn) || errors.As(err, &typ) {
				log.Printf("[SYNC] dropping malformed message: %v", err)
				continue
			}
			break
		}

		switch msg.Type {
		case wire.TypeRoomJoined:
			if len(msg.Scene) == 0 || string(msg.Scene) == "null" {
				continue // empty room, keep the local scene
			}
			s.deliver(msg.Scene)
		case wire.TypeSceneUpdate:
			s.deliver(msg.Scene)
		}
	}
	s.Close()
}

func (s *Session) deliver(raw []byte) {
	sc, err := wire.DecodeScene(raw)
	if err != nil {
		log.Printf("[SYNC] dropping undecodable scene: %v", err)
		return
	}
	s.mu.Lock()
	cb := s.OnRemoteScene
	s.mu.Unlock()
	if cb != nil {
		cb(sc)
	}
}

// QueueUpdate schedules a debounced SCENE_UPDATE carrying the whole
// scene. A newer queue call within the window replaces the pending scene
// and reschedules the timer; only the most recent scene is sent.
func (s *Session) QueueUpdate(sc scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Joined {
		return
	}
	queued := sc.Clone()
	s.pending = &queued
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(SendDebounce, s.sendPending)
}

func (s *Session) sendPending() {
	s.mu.Lock()
	if s.state != Joined || s.pending == nil {
		s.mu.Unlock()
		return
	}
	sc := *s.pending
	s.pending = nil
	s.mu.Unlock()

	payload, err := wire.EncodeScene(sc)
	if err != nil {
		log.Printf("[SYNC] encode scene: %v", err)
		return
	}
	if err := s.write(wire.Message{Type: wire.TypeSceneUpdate, Scene: payload}); err != nil {
		log.Printf("[SYNC] send SCENE_UPDATE: %v", err)
	}
}

// Close tears the session down. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	s.setState(Disconnected)
}
