package gemini_test

import (
	"testing"

	"github.com/fwojciec/xanadium"
	"github.com/fwojciec/xanadium/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestBuildContents_TextOnly(t *testing.T) {
	t.Parallel()
	got := gemini.BuildContents(xanadium.Prompt{Persona: "Be brief.", Text: "hello"})
	require.Len(t, got, 1)
	assert.Equal(t, "user", got[0].Role)
	require.Len(t, got[0].Parts, 1)
	assert.Equal(t, "Be brief.\n\nUser: hello", got[0].Parts[0].Text)
}

func TestBuildContents_WithImage(t *testing.T) {
	t.Parallel()
	img := &xanadium.Attachment{Name: "a.png", MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	got := gemini.BuildContents(xanadium.Prompt{Persona: "Be brief.", Text: "what is it?", Image: img})
	require.Len(t, got, 1)
	require.Len(t, got[0].Parts, 2)
	assert.Equal(t, "Be brief.\n\nwhat is it?", got[0].Parts[0].Text)
	require.NotNil(t, got[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", got[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, img.Data, got[0].Parts[1].InlineData.Data)
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil response", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, ""},
		{
			"joins parts and skips thoughts",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "thinking...", Thought: true},
					{Text: "Hello, "},
					nil,
					{Text: "world."},
				}},
			}}},
			"Hello, world.",
		},
		{
			"uses first candidate only",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "first"}}}},
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "second"}}}},
			}},
			"first",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, gemini.ExtractText(tt.resp))
		})
	}
}
