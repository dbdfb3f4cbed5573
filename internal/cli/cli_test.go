package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmorgan81/autologo/internal/brand"
	"github.com/dmorgan81/autologo/internal/export"
	"github.com/dmorgan81/autologo/internal/image"
	"github.com/dmorgan81/autologo/internal/inject"
	"github.com/dmorgan81/autologo/internal/page"
	"github.com/dmorgan81/autologo/internal/session"
	"github.com/dmorgan81/autologo/internal/store"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	err     error
	configs []brand.Config
}

func (g *fakeGenerator) Generate(_ context.Context, cfg brand.Config) (string, error) {
	g.configs = append(g.configs, cfg)
	if g.err != nil {
		return "", g.err
	}
	return image.EncodeReference([]byte("png"), "image/png"), nil
}

func newInjector(t *testing.T, gen session.Generator) (*do.Injector, string) {
	dir := t.TempDir()
	i := do.New()
	do.ProvideValue[*session.Session](i, session.New(gen))
	do.ProvideValue[*export.Exporter](i, export.New(&store.FileUploader{Dir: dir}, store.NopInvalidator{}, &page.Templator{}))
	return i, dir
}

func TestGenerateCmd(t *testing.T) {
	gen := &fakeGenerator{}
	i, dir := newInjector(t, gen)

	var out bytes.Buffer
	cmd := NewGenerateCmd(i)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--name", "Acme Corp", "--style", "geometric", "--trait", "reliable", "--trait", "reliable", "--export"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Modern Geometric logo for Acme Corp")
	assert.Contains(t, out.String(), "Exported acme-corp-logo.png")
	require.Len(t, gen.configs, 1)
	assert.Equal(t, []brand.Trait{brand.Reliable}, gen.configs[0].Personality)

	_, err := os.Stat(filepath.Join(dir, "acme-corp-logo.png"))
	assert.NoError(t, err)
}

func TestGenerateCmdErrors(t *testing.T) {
	t.Run("blank name", func(t *testing.T) {
		gen := &fakeGenerator{}
		i, _ := newInjector(t, gen)
		cmd := NewGenerateCmd(i)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--name", "  "})

		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Please enter a brand name.", err.Error())
		assert.Empty(t, gen.configs)
	})

	t.Run("bad style", func(t *testing.T) {
		i, _ := newInjector(t, &fakeGenerator{})
		cmd := NewGenerateCmd(i)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--style", "baroque"})
		assert.Error(t, cmd.ExecuteContext(context.Background()))
	})

	t.Run("generator failure", func(t *testing.T) {
		i, _ := newInjector(t, &fakeGenerator{err: errors.New("upstream 500")})
		cmd := NewGenerateCmd(i)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Failed to generate logo. Please try again.", err.Error())
	})
}

func newShell(t *testing.T, gen session.Generator) (*Shell, *bytes.Buffer, string) {
	dir := t.TempDir()
	var out bytes.Buffer
	return &Shell{
		session:  session.New(gen),
		exporter: export.New(&store.FileUploader{Dir: dir}, store.NopInvalidator{}, &page.Templator{}),
		config:   brand.DefaultConfig(),
		out:      &out,
	}, &out, dir
}

func TestShellGenerate(t *testing.T) {
	gen := &fakeGenerator{}
	sh, out, _ := newShell(t, gen)

	input := strings.Join([]string{
		"name Acme Corp",
		"style symbolic",
		"trait smart",
		"trait scalable",
		"color #000000",
		"generate",
		"quit",
	}, "\n")
	require.NoError(t, sh.Run(context.Background(), strings.NewReader(input)))

	require.Len(t, gen.configs, 1)
	cfg := gen.configs[0]
	assert.Equal(t, "Acme Corp", cfg.BrandName)
	assert.Equal(t, brand.Symbolic, cfg.Style)
	assert.Equal(t, "#000000", cfg.PrimaryColor)
	assert.Equal(t, []brand.Trait{brand.Innovative, brand.Scalable}, cfg.Personality)

	assert.Contains(t, out.String(), "designing...")
	assert.Contains(t, out.String(), "Modern Symbolic logo for Acme Corp")
	assert.Len(t, sh.session.History(), 1)
}

func TestShellBlankName(t *testing.T) {
	gen := &fakeGenerator{}
	sh, out, _ := newShell(t, gen)

	require.NoError(t, sh.Run(context.Background(), strings.NewReader("name\ngenerate\n")))
	assert.Empty(t, gen.configs)
	assert.Contains(t, out.String(), "Please enter a brand name.")
}

func TestShellHistoryAndExport(t *testing.T) {
	ctx := context.Background()
	sh, out, dir := newShell(t, &fakeGenerator{})

	first, err := sh.session.RequestGeneration(ctx, brand.DefaultConfig())
	require.NoError(t, err)
	_, err = sh.session.RequestGeneration(ctx, brand.DefaultConfig())
	require.NoError(t, err)

	input := strings.Join([]string{
		"select " + first.ID,
		"history",
		"export",
		"feed",
		"clear",
		"history",
		"show",
		"select missing",
		"bogus",
	}, "\n")
	require.NoError(t, sh.Run(ctx, strings.NewReader(input)))

	text := out.String()
	assert.Contains(t, text, "* "+first.ID)
	assert.Contains(t, text, "exported nexus-ai-logo.png")
	assert.Contains(t, text, "<rss")
	assert.Contains(t, text, "history cleared")
	assert.Contains(t, text, "no logos yet")
	assert.Contains(t, text, "preview: "+first.ID)
	assert.Contains(t, text, "no logo missing")
	assert.Contains(t, text, "unknown command bogus")

	_, err = os.Stat(filepath.Join(dir, "nexus-ai-logo.png"))
	assert.NoError(t, err)
}

func TestShellExportWithoutPreview(t *testing.T) {
	sh, out, _ := newShell(t, &fakeGenerator{})
	require.NoError(t, sh.Run(context.Background(), strings.NewReader("export\n")))
	assert.Contains(t, out.String(), "nothing to export")
}

func TestCommandsReportWiringErrors(t *testing.T) {
	t.Setenv("AUTOLOGO_PROVIDER", "dall-e")
	t.Setenv("AUTOLOGO_PARAM_SOURCE", "env")
	t.Setenv("BUCKET", "")
	t.Setenv("DISTRIBUTION", "")

	for _, newCmd := range []func(*do.Injector) *cobra.Command{NewGenerateCmd, NewShellCmd} {
		cmd := newCmd(inject.Setup(context.Background()))
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetIn(strings.NewReader("quit\n"))
		cmd.SetArgs([]string{})

		var err error
		assert.NotPanics(t, func() {
			err = cmd.ExecuteContext(context.Background())
		}, cmd.Name())
		require.Error(t, err, cmd.Name())
		assert.Contains(t, err.Error(), `unknown image provider "dall-e"`, cmd.Name())
	}
}
