// Package wire defines the room-relay protocol: one JSON object per
// websocket message.
package wire

import (
	"encoding/json"

	"OpenSketch/internal/scene"
)

// Message types.
const (
	TypeInitScene   = "INIT_SCENE"   // client→relay, once after connecting
	TypeSceneUpdate = "SCENE_UPDATE" // both directions, full scene
	TypeRoomJoined  = "ROOM_JOINED"  // relay→client, once per connection
)

// Message is the protocol envelope. Scene stays a raw payload on the
// relay so updates are stored and rebroadcast verbatim; only clients
// decode it. A nil Scene marshals as null, which ROOM_JOINED uses for
// rooms that have not received a scene yet.
type Message struct {
	Type   string          `json:"type"`
	RoomID string          `json:"roomId,omitempty"`
	Scene  json.RawMessage `json:"scene"`
}

// EncodeScene serializes a scene into a message payload.
func EncodeScene(sc scene.Scene) (json.RawMessage, error) {
	return json.Marshal(sc)
}

// DecodeScene parses a payload into a scene, applying the model's
// defensive defaults. A null payload decodes to an empty default scene.
func DecodeScene(raw json.RawMessage) (scene.Scene, error) {
	var sc scene.Scene
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &sc); err != nil {
			return scene.Scene{}, err
		}
	}
	return sc.Normalize(), nil
}
