package inject

import (
	"context"
	"testing"

	"github.com/dmorgan81/autologo/internal/image"
	"github.com/dmorgan81/autologo/internal/store"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLocal(t *testing.T) {
	t.Setenv("AUTOLOGO_PARAM_SOURCE", "env")
	t.Setenv("AUTOLOGO_PROVIDER", "dezgo")
	t.Setenv("AUTOLOGO_MODEL", "")
	t.Setenv("DEZGO_KEY", "secret")
	t.Setenv("BUCKET", "")
	t.Setenv("DISTRIBUTION", "")
	t.Setenv("EXPORT_DIR", t.TempDir())

	injector := Setup(context.Background())

	assert.Equal(t, "dreamshaper_8", do.MustInvokeNamed[string](injector, "model"))

	gen, err := do.Invoke[image.Generator](injector)
	require.NoError(t, err)
	dezgo, ok := gen.(*image.DezgoGenerator)
	require.True(t, ok)
	assert.Equal(t, "secret", dezgo.Key)

	uploader, err := do.Invoke[store.Uploader](injector)
	require.NoError(t, err)
	assert.IsType(t, &store.FileUploader{}, uploader)

	invalidator, err := do.Invoke[store.Invalidator](injector)
	require.NoError(t, err)
	assert.IsType(t, store.NopInvalidator{}, invalidator)
}

func TestSetupGeminiDefault(t *testing.T) {
	t.Setenv("AUTOLOGO_PARAM_SOURCE", "env")
	t.Setenv("AUTOLOGO_PROVIDER", "")
	t.Setenv("AUTOLOGO_MODEL", "")
	t.Setenv("GEMINI_API_KEY", "key")

	injector := Setup(context.Background())
	assert.Equal(t, "gemini", do.MustInvokeNamed[string](injector, "provider"))
	assert.Equal(t, image.DefaultGeminiModel, do.MustInvokeNamed[string](injector, "model"))

	gen, err := do.Invoke[image.Generator](injector)
	require.NoError(t, err)
	assert.IsType(t, &image.GeminiGenerator{}, gen)
}

func TestSetupUnknownProvider(t *testing.T) {
	t.Setenv("AUTOLOGO_PROVIDER", "dall-e")

	_, err := do.Invoke[image.Generator](Setup(context.Background()))
	assert.Error(t, err)
}
