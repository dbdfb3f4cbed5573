package image

import (
	"context"
	"errors"

	"github.com/dmorgan81/autologo/internal/brand"
	"github.com/dmorgan81/autologo/internal/log"
	"github.com/dmorgan81/autologo/internal/prompt"
	"github.com/samber/do"
)

// Service adapts a Generator to the session: it turns a brand config into a
// detailed prompt and the returned image into a data reference.
type Service struct {
	generator Generator
	model     string
}

func NewService(generator Generator, model string) *Service {
	return &Service{generator: generator, model: model}
}

func NewInjectedService(i *do.Injector) (*Service, error) {
	return NewService(do.MustInvoke[Generator](i), do.MustInvokeNamed[string](i, "model")), nil
}

func (s *Service) Generate(ctx context.Context, cfg brand.Config) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("image").With("brand", cfg.BrandName)

	res, err := s.generator.Generate(ctx, Params{
		Model:  s.model,
		Prompt: prompt.Describe(cfg),
	})
	if err != nil {
		return "", err
	}
	if len(res.Data) == 0 {
		return "", errors.New("image: generator returned no data")
	}

	contentType := res.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	log.Debug("encoded image reference", "content-type", contentType, "seed", res.Seed)
	return EncodeReference(res.Data, contentType), nil
}
