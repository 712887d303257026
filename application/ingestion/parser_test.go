package ingestion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "graphmem-backend/pkg/errors"
)

const sampleExport = `https://chat.example.com/c/3f2b4a1c-9d8e-4f00-b1a2-c3d4e5f60718

7/14/2025, 9:05:12 AM
Prompt:
I ran a 5K this morning in 35 minutes.
Felt strong the whole way.

7/14/2025, 9:05:40 AM
Response:
That is a solid pace. How did the last kilometer feel?

7/14/2025, 9:06:02 AM
Prompt:
The last kilometer was the fastest.
`

func TestParseExport(t *testing.T) {
	messages, err := ParseExport(sampleExport, "export.md")
	require.NoError(t, err)
	require.Len(t, messages, 3)

	first := messages[0]
	assert.Equal(t, SpeakerUser, first.Speaker)
	assert.Equal(t, "I ran a 5K this morning in 35 minutes.\nFelt strong the whole way.", first.Text)
	assert.Equal(t, "3f2b4a1c-9d8e-4f00-b1a2-c3d4e5f60718", first.SessionID)
	assert.Equal(t, 0, first.MessageIndex)
	assert.Equal(t, "export.md", first.SourceFile)
	assert.Equal(t, time.Date(2025, 7, 14, 9, 5, 12, 0, time.UTC), first.Timestamp)

	assert.Equal(t, SpeakerAssistant, messages[1].Speaker)
	assert.Equal(t, 1, messages[1].MessageIndex)

	assert.Equal(t, SpeakerUser, messages[2].Speaker)
	assert.Equal(t, "The last kilometer was the fastest.", messages[2].Text)
}

func TestParseExport_CharOffsets(t *testing.T) {
	messages, err := ParseExport(sampleExport, "export.md")
	require.NoError(t, err)

	for _, m := range messages {
		assert.Less(t, m.SourceCharStart, m.SourceCharEnd)
		assert.Contains(t, sampleExport[m.SourceCharStart:m.SourceCharEnd], m.Text)
	}
}

func TestParseExport_NoMessages(t *testing.T) {
	_, err := ParseExport("just some notes\nwith no markers\n", "notes.md")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestParseExport_NoSessionLine(t *testing.T) {
	messages, err := ParseExport("Prompt:\nhello there\n", "export.md")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Empty(t, messages[0].SessionID)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0o644))

	messages, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
	assert.Equal(t, "export.md", messages[0].SourceFile)

	_, err = ParseFile(filepath.Join(dir, "missing.md"))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGlobExports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "a.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o644))

	files, err := globExports(dir, "")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "b.md"), files[0])
	assert.Equal(t, filepath.Join(dir, "nested", "a.md"), files[1])
}
