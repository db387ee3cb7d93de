package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OpenSketch/internal/scene"
	"OpenSketch/internal/wire"
)

func startRelay(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(NewServer().Router())
	t.Cleanup(ts.Close)
	return ts.URL
}

func dialRoom(t *testing.T, httpURL, room string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/?roomId=" + room
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wire.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wire.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func scenePayload(t *testing.T, text string) json.RawMessage {
	t.Helper()
	sc := scene.New()
	s := scene.NewShape(scene.KindText, 0, 0, scene.DefaultStyle())
	s.Text = text
	sc.Elements = append(sc.Elements, s)
	raw, err := wire.EncodeScene(sc)
	require.NoError(t, err)
	return raw
}

func sceneText(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	sc, err := wire.DecodeScene(raw)
	require.NoError(t, err)
	require.Len(t, sc.Elements, 1)
	return sc.Elements[0].Text
}

func TestHealthEndpoint(t *testing.T) {
	url := startRelay(t)
	resp, err := http.Get(url + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestJoinEmptyRoomGetsNullScene(t *testing.T) {
	url := startRelay(t)
	conn := dialRoom(t, url, "r1")

	msg := readMessage(t, conn)
	assert.Equal(t, wire.TypeRoomJoined, msg.Type)
	assert.Equal(t, "r1", msg.RoomID)
	assert.Equal(t, "null", string(msg.Scene))
}

func TestMissingRoomIDGetsGenerated(t *testing.T) {
	url := startRelay(t)
	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readMessage(t, conn)
	assert.Equal(t, wire.TypeRoomJoined, msg.Type)
	assert.NotEmpty(t, msg.RoomID)
}

func TestLateJoinerReceivesCurrentScene(t *testing.T) {
	url := startRelay(t)

	a := dialRoom(t, url, "shared")
	readMessage(t, a)
	require.NoError(t, a.WriteJSON(wire.Message{Type: wire.TypeInitScene, Scene: scenePayload(t, "from A")}))
	time.Sleep(100 * time.Millisecond)

	b := dialRoom(t, url, "shared")
	joined := readMessage(t, b)
	assert.Equal(t, wire.TypeRoomJoined, joined.Type)
	assert.Equal(t, "from A", sceneText(t, joined.Scene))
}

func TestUpdateBroadcastsToOthersOnly(t *testing.T) {
	url := startRelay(t)

	a := dialRoom(t, url, "room")
	readMessage(t, a)
	b := dialRoom(t, url, "room")
	readMessage(t, b)

	require.NoError(t, b.WriteJSON(wire.Message{Type: wire.TypeSceneUpdate, Scene: scenePayload(t, "edit")}))

	msg := readMessage(t, a)
	assert.Equal(t, wire.TypeSceneUpdate, msg.Type)
	assert.Equal(t, "edit", sceneText(t, msg.Scene))

	// The sender must not receive its own update back.
	b.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var echo wire.Message
	assert.Error(t, b.ReadJSON(&echo))
}

func TestRoomDestroyedWhenEmpty(t *testing.T) {
	url := startRelay(t)

	a := dialRoom(t, url, "ephemeral")
	readMessage(t, a)
	require.NoError(t, a.WriteJSON(wire.Message{Type: wire.TypeInitScene, Scene: scenePayload(t, "gone soon")}))
	time.Sleep(100 * time.Millisecond)
	a.Close()
	time.Sleep(200 * time.Millisecond)

	b := dialRoom(t, url, "ephemeral")
	joined := readMessage(t, b)
	assert.Equal(t, "null", string(joined.Scene), "rooms keep no state past their lifetime")
}

func TestMalformedFrameDoesNotKillConnection(t *testing.T) {
	url := startRelay(t)

	a := dialRoom(t, url, "sturdy")
	readMessage(t, a)
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, a.WriteJSON(wire.Message{Type: wire.TypeInitScene, Scene: scenePayload(t, "still here")}))
	time.Sleep(100 * time.Millisecond)

	b := dialRoom(t, url, "sturdy")
	joined := readMessage(t, b)
	assert.Equal(t, "still here", sceneText(t, joined.Scene))
}
