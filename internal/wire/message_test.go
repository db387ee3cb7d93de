package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OpenSketch/internal/scene"
)

func TestNilSceneMarshalsAsNull(t *testing.T) {
	data, err := json.Marshal(Message{Type: TypeRoomJoined, RoomID: "r1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scene":null`)
}

func TestEncodeDecodeScene(t *testing.T) {
	sc := scene.New()
	sc.Elements = append(sc.Elements, scene.NewShape(scene.KindRectangle, 1, 2, scene.DefaultStyle()))
	sc.Zoom = 2.5

	raw, err := EncodeScene(sc)
	require.NoError(t, err)

	got, err := DecodeScene(raw)
	require.NoError(t, err)
	assert.Equal(t, sc, got)
}

func TestDecodeNullYieldsDefaultScene(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage("null")} {
		got, err := DecodeScene(raw)
		require.NoError(t, err)
		assert.NotNil(t, got.Elements)
		assert.Equal(t, 1.0, got.Zoom)
		assert.Equal(t, scene.DefaultBackground, got.BackgroundColor)
	}
}

func TestDecodeFillsMissingFields(t *testing.T) {
	got, err := DecodeScene(json.RawMessage(`{"elements":null}`))
	require.NoError(t, err)
	assert.NotNil(t, got.Elements)
	assert.Equal(t, 1.0, got.Zoom)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeScene(json.RawMessage(`{"zoom":"fast"}`))
	assert.Error(t, err)
}
