package export

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/dmorgan81/autologo/internal/image"
	"github.com/dmorgan81/autologo/internal/log"
	"github.com/dmorgan81/autologo/internal/page"
	"github.com/dmorgan81/autologo/internal/session"
	"github.com/dmorgan81/autologo/internal/store"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

var unsafeRuns = regexp.MustCompile(`[^\p{L}\p{N}]+`)

var extensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// FileName returns the download name for a brand, e.g. "nexus-ai-logo.png".
// Anything but letters and digits collapses to a single dash, so the name
// never contains a path separator. The extension follows contentType and
// defaults to .png.
func FileName(brandName, contentType string) string {
	ext, ok := extensions[contentType]
	if !ok {
		ext = ".png"
	}
	stem := strings.Trim(unsafeRuns.ReplaceAllString(strings.ToLower(brandName), "-"), "-")
	if stem == "" {
		return "logo" + ext
	}
	return stem + "-logo" + ext
}

type Exporter struct {
	uploader    store.Uploader
	invalidator store.Invalidator
	templator   *page.Templator
}

func New(uploader store.Uploader, invalidator store.Invalidator, templator *page.Templator) *Exporter {
	return &Exporter{uploader, invalidator, templator}
}

func NewExporter(i *do.Injector) (*Exporter, error) {
	return New(
		do.MustInvoke[store.Uploader](i),
		do.MustInvoke[store.Invalidator](i),
		do.MustInvoke[*page.Templator](i),
	), nil
}

// Export writes the logo image and a preview page next to it and returns
// the image name.
func (e *Exporter) Export(ctx context.Context, logo session.GeneratedLogo, brandName string) (string, error) {
	data, contentType, err := image.DecodeReference(logo.ImageReference)
	if err != nil {
		return "", err
	}

	name := FileName(brandName, contentType)
	pageName := strings.TrimSuffix(name, path.Ext(name)) + ".html"

	log := log.FromContextOrDiscard(ctx).WithGroup("export").With("id", logo.ID, "name", name)
	log.Info("exporting logo")

	html, err := e.templator.Template(ctx, page.Params{
		Brand:     brandName,
		Image:     name,
		Prompt:    logo.Prompt,
		Generated: logo.Timestamp,
	})
	if err != nil {
		return "", err
	}

	metadata := map[string]string{
		"id":     logo.ID,
		"brand":  brandName,
		"prompt": logo.Prompt,
	}
	uploads := []store.UploadParams{
		{Name: name, Data: data, ContentType: contentType, Metadata: metadata},
		{Name: pageName, Data: html, ContentType: "text/html", Metadata: metadata},
	}

	group, gctx := errgroup.WithContext(ctx)
	for _, u := range uploads {
		u := u
		group.Go(func() error {
			return e.uploader.Upload(gctx, u)
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}

	if err := e.invalidator.Invalidate(ctx, []string{"/" + name, "/" + pageName}); err != nil {
		return "", err
	}
	return name, nil
}
