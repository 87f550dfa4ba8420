package notea

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/notea/internal/game"
	"github.com/dekarrin/notea/internal/nterrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleWorld = filepath.Join("worlds", "h2g2.toml")

func runLines(t *testing.T, opts Options, lines ...string) string {
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")

	eng, err := New(in, &out, sampleWorld, opts)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, eng.Close())
	}()

	require.NoError(t, eng.RunUntilQuit(context.Background()))
	return out.String()
}

func Test_Engine_RunUntilQuit(t *testing.T) {
	assert := assert.New(t)

	out := runLines(t, Options{}, "look", "turn on lamp", "quit", "wait")

	assert.True(strings.HasPrefix(out, "Welcome to H2G2 Example\n(direct input mode)\n"))
	assert.Contains(out, "You wake up.")
	assert.Contains(out, "> look\nIt is pitch black.\n")
	assert.Contains(out, "light is now on.\nBedroom\nThe bedroom is a mess.")
	assert.Contains(out, "\nYou can see a light, a bed, and a phone here.\n\n> quit\nGoodbye.\n")
	assert.NotContains(out, nterrors.GenericFailure)
	assert.NotContains(out, "> wait")
}

func Test_Engine_saves(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	runLines(t, Options{SaveDir: dir}, "turn on lamp", "get gown", "save", "quit")

	out := runLines(t, Options{SaveDir: dir}, "restore", "inventory")
	assert.Contains(out, "Restored.")
	assert.Contains(out, "You have:\n  a tatty dressing gown")
}

func Test_Engine_noSaveDir(t *testing.T) {
	out := runLines(t, Options{}, "save")

	assert.Contains(t, out, "Saving isn't available here.")
}

func Test_DirSaver(t *testing.T) {
	assert := assert.New(t)
	ds := DirSaver{Dir: filepath.Join(t.TempDir(), "saves")}
	ctx := context.Background()

	_, err := ds.Load(ctx, "default")
	assert.ErrorIs(err, game.ErrNoSave)

	require.NoError(t, ds.Save(ctx, "default", []byte{1, 2, 3}))
	require.NoError(t, ds.Save(ctx, "default", []byte{4}))
	data, err := ds.Load(ctx, "default")
	assert.NoError(err)
	assert.Equal([]byte{4}, data)

	assert.Error(ds.Save(ctx, "../escape", []byte{1}))
}

func Test_Wrap(t *testing.T) {
	assert := assert.New(t)

	long := strings.Repeat("word ", 30)
	for _, line := range strings.Split(Wrap(long), "\n") {
		assert.LessOrEqual(len(line), consoleOutputWidth)
	}

	list := "You have:\n  a towel\n    a pocket fluff"
	assert.Equal(list, Wrap(list))
}
