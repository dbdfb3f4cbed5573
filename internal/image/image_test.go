package image

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmorgan81/autologo/internal/brand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type stubGenerator struct {
	params Params
	result Result
	err    error
}

func (g *stubGenerator) Generate(_ context.Context, params Params) (Result, error) {
	g.params = params
	return g.result, g.err
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("encodes result", func(t *testing.T) {
		gen := &stubGenerator{result: Result{Data: []byte("png-bytes"), ContentType: "image/png"}}
		ref, err := NewService(gen, "test-model").Generate(ctx, brand.DefaultConfig())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(ref, "data:image/png;base64,"))
		assert.Equal(t, "test-model", gen.params.Model)
		assert.Contains(t, gen.params.Prompt, "Nexus AI")

		data, contentType, err := DecodeReference(ref)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("defaults content type", func(t *testing.T) {
		gen := &stubGenerator{result: Result{Data: []byte{1}}}
		ref, err := NewService(gen, "").Generate(ctx, brand.DefaultConfig())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref, "data:image/png;"))
	})

	t.Run("empty data", func(t *testing.T) {
		_, err := NewService(&stubGenerator{}, "").Generate(ctx, brand.DefaultConfig())
		assert.Error(t, err)
	})

	t.Run("generator error", func(t *testing.T) {
		cause := errors.New("unavailable")
		_, err := NewService(&stubGenerator{err: cause}, "").Generate(ctx, brand.DefaultConfig())
		assert.ErrorIs(t, err, cause)
	})
}

func TestDecodeReference(t *testing.T) {
	for _, ref := range []string{"img://abc", "data:image/png,abc", "data:image/png;base64"} {
		_, _, err := DecodeReference(ref)
		assert.ErrorIs(t, err, ErrBadReference, ref)
	}
	_, _, err := DecodeReference("data:image/png;base64,!!!")
	assert.Error(t, err)
}

func TestDezgoGenerator(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "secret", r.Header.Get("X-Dezgo-Key"))

			var params Params
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&params))
			assert.Equal(t, "a logo", params.Prompt)

			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("x-input-seed", "42")
			_, _ = io.WriteString(w, "image")
		}))
		defer srv.Close()

		g := &DezgoGenerator{Client: srv.Client(), Key: "secret", BaseURL: srv.URL}
		res, err := g.Generate(context.Background(), Params{Model: "m", Prompt: "a logo"})
		require.NoError(t, err)
		assert.Equal(t, []byte("image"), res.Data)
		assert.Equal(t, "image/png", res.ContentType)
		assert.Equal(t, "42", res.Seed)
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		}))
		defer srv.Close()

		g := &DezgoGenerator{Client: srv.Client(), Key: "wrong", BaseURL: srv.URL}
		_, err := g.Generate(context.Background(), Params{Prompt: "a logo"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestGeminiFirstImage(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here is your logo"},
				{InlineData: &genai.Blob{Data: []byte("jpeg"), MIMEType: "image/jpeg"}},
			}}},
		},
	}
	res, err := firstImage(resp)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), res.Data)
	assert.Equal(t, "image/jpeg", res.ContentType)

	_, err = firstImage(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, errNoImage)
	_, err = firstImage(nil)
	assert.ErrorIs(t, err, errNoImage)
}

func TestGeminiMissingKey(t *testing.T) {
	_, err := (&GeminiGenerator{}).Generate(context.Background(), Params{Prompt: "x"})
	assert.Error(t, err)
}
