package xanadium_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/xanadium"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestMessage_HasImage(t *testing.T) {
	t.Parallel()
	assert.False(t, xanadium.Message{Role: xanadium.RoleUser, Text: "hi"}.HasImage())
	assert.True(t, xanadium.Message{Role: xanadium.RoleUser, Image: "data:image/png;base64,AA=="}.HasImage())
}

func TestAttachment_DataURL(t *testing.T) {
	t.Parallel()

	a := xanadium.Attachment{Name: "a.png", MimeType: "image/png", Data: []byte("abc")}
	assert.Equal(t, "data:image/png;base64,YWJj", a.DataURL())

	got, err := xanadium.ParseDataURL(a.DataURL())
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, []byte("abc"), got.Data)
	assert.Empty(t, got.Name)
}

func TestParseDataURL_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"no prefix", "image/png;base64,AA=="},
		{"no comma", "data:image/png;base64"},
		{"not base64", "data:text/plain,hello"},
		{"bad payload", "data:image/png;base64,***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := xanadium.ParseDataURL(tt.input)
			assert.ErrorIs(t, err, xanadium.ErrInvalidDataURL)
		})
	}
}

func TestLoadAttachment(t *testing.T) {
	t.Parallel()

	t.Run("png file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "Photo.PNG")
		require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

		a, err := xanadium.LoadAttachment(path)
		require.NoError(t, err)
		assert.Equal(t, "Photo.PNG", a.Name)
		assert.Equal(t, "image/png", a.MimeType)
		assert.Equal(t, pngHeader, a.Data)
	})

	t.Run("extension not allowed", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

		_, err := xanadium.LoadAttachment(path)
		assert.ErrorIs(t, err, xanadium.ErrUnsupportedImage)
	})

	t.Run("content is not an image", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "fake.jpg")
		require.NoError(t, os.WriteFile(path, []byte("plain text pretending"), 0o600))

		_, err := xanadium.LoadAttachment(path)
		assert.ErrorIs(t, err, xanadium.ErrUnsupportedImage)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := xanadium.LoadAttachment(filepath.Join(t.TempDir(), "gone.png"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, xanadium.ErrUnsupportedImage)
	})
}

func TestPrompt_Render(t *testing.T) {
	t.Parallel()

	t.Run("text only labels the user turn", func(t *testing.T) {
		t.Parallel()
		p := xanadium.Prompt{Persona: "Be brief.", Text: "hi"}
		assert.Equal(t, "Be brief.\n\nUser: hi", p.Render())
	})

	t.Run("with image the text follows the persona", func(t *testing.T) {
		t.Parallel()
		p := xanadium.Prompt{Persona: "Be brief.", Text: "what is this?", Image: &xanadium.Attachment{MimeType: "image/png"}}
		assert.Equal(t, "Be brief.\n\nwhat is this?", p.Render())
	})

	t.Run("empty persona falls back to default", func(t *testing.T) {
		t.Parallel()
		p := xanadium.Prompt{Text: "hi"}
		assert.Equal(t, xanadium.DefaultPersona+"\n\nUser: hi", p.Render())
	})
}

func TestRole_Known(t *testing.T) {
	t.Parallel()

	assert.True(t, xanadium.RoleUser.Known())
	assert.True(t, xanadium.RoleAssistant.Known())
	assert.False(t, xanadium.Role("system").Known())
	assert.False(t, xanadium.Role("").Known())
}
