package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OpenSketch/internal/scene"
)

func testScene(label string) scene.Scene {
	sc := scene.New()
	s := scene.NewShape(scene.KindText, 1, 2, scene.DefaultStyle())
	s.Text = label
	sc.Elements = append(sc.Elements, s)
	return sc
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	want := testScene("round trip")
	require.NoError(t, fs.Save(SceneKey, want))

	got, ok, err := fs.Load(SceneKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestLoadMissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := fs.Load(SceneKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteMissingKeyIsNoOp(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, fs.Delete("nothing"))
}

func TestDelete(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fs.Save(SceneKey, testScene("x")))
	require.NoError(t, fs.Delete(SceneKey))

	_, ok, err := fs.Load(SceneKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaverCoalescesToNewest(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	saver := NewSaver(fs, SceneKey)

	saver.Queue(testScene("one"))
	saver.Queue(testScene("two"))
	saver.Queue(testScene("three"))

	time.Sleep(SaveDebounce + 200*time.Millisecond)

	got, ok, err := fs.Load(SceneKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Elements, 1)
	assert.Equal(t, "three", got.Elements[0].Text)
}

func TestSaverStopFlushesPending(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	saver := NewSaver(fs, SceneKey)

	saver.Queue(testScene("pending"))
	saver.Stop()

	got, ok, err := fs.Load(SceneKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "pending", got.Elements[0].Text)

	saver.Queue(testScene("after stop"))
	time.Sleep(SaveDebounce + 100*time.Millisecond)
	got, _, _ = fs.Load(SceneKey)
	assert.Equal(t, "pending", got.Elements[0].Text, "queues after Stop are ignored")
}
