package page

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"sync"
	"time"

	"github.com/dmorgan81/autologo/internal/log"
	"github.com/samber/do"
)

//go:embed assets/preview.html
var previewTmpl string

type Params struct {
	Brand     string
	Image     string
	Prompt    string
	Generated time.Time
}

type Templator struct {
	tmpl *template.Template
	once sync.Once
}

func NewTemplator(_ *do.Injector) (*Templator, error) {
	return &Templator{}, nil
}

func (g *Templator) Template(ctx context.Context, params Params) ([]byte, error) {
	g.once.Do(func() {
		g.tmpl = template.Must(template.New("preview").Parse(previewTmpl))
	})

	log := log.FromContextOrDiscard(ctx).WithGroup("templator")
	log.Info("generating preview page", "brand", params.Brand)

	var data bytes.Buffer
	if err := g.tmpl.Execute(&data, params); err != nil {
		return nil, err
	}
	return data.Bytes(), nil
}
