package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := newArchive(t)
	payload := []byte(`{"metadata":{"matchId":"BR1_42"},"info":{"frames":[]}}` + strings.Repeat(" ", 4096))

	require.NoError(t, a.Save("BR1_42", KindTimeline, payload))
	assert.True(t, a.Has("BR1_42", KindTimeline))
	assert.False(t, a.Has("BR1_42", KindMatch))

	got, err := a.Load("BR1_42", KindTimeline)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	info, err := os.Stat(a.Path("BR1_42", KindTimeline))
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(len(payload)))
	assert.Equal(t, filepath.Join(a.Dir(), "br1", "BR1_42.timeline.json.zst"), a.Path("BR1_42", KindTimeline))
}

func TestSaveIgnoresEmpty(t *testing.T) {
	a := newArchive(t)
	require.NoError(t, a.Save("KR_1", KindMatch, nil))
	assert.False(t, a.Has("KR_1", KindMatch))
}

func TestLoadMissing(t *testing.T) {
	a := newArchive(t)
	_, err := a.Load("KR_1", KindMatch)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMatchIDs(t *testing.T) {
	a := newArchive(t)
	for _, id := range []string{"KR_2", "BR1_1", "KR_1"} {
		require.NoError(t, a.Save(id, KindMatch, []byte(`{}`)))
	}
	require.NoError(t, a.Save("KR_1", KindTimeline, []byte(`{}`)))

	ids, err := a.MatchIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"BR1_1", "KR_1", "KR_2"}, ids)
}

func TestPlatformOf(t *testing.T) {
	assert.Equal(t, "euw1", platformOf("EUW1_7000"))
	assert.Equal(t, "unknown", platformOf("nounderscore"))
}
