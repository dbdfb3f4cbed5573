package image

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmorgan81/autologo/internal/log"
	"github.com/samber/do"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash-image"

var errNoImage = errors.New("gemini: no image in response")

// GeminiGenerator renders images with a Gemini image model. The SDK client
// is created on first use.
type GeminiGenerator struct {
	Key        string
	HTTPClient *http.Client

	once   sync.Once
	client *genai.Client
	err    error
}

func NewGeminiGenerator(i *do.Injector) (*GeminiGenerator, error) {
	return &GeminiGenerator{
		Key:        do.MustInvokeNamed[string](i, "gemini_key"),
		HTTPClient: do.MustInvoke[*http.Client](i),
	}, nil
}

func (g *GeminiGenerator) init(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		if g.Key == "" {
			g.err = errors.New("gemini: api key not configured")
			return
		}
		g.client, g.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     g.Key,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: g.HTTPClient,
		})
	})
	return g.client, g.err
}

func (g *GeminiGenerator) Generate(ctx context.Context, params Params) (Result, error) {
	model := params.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	log := log.FromContextOrDiscard(ctx).WithGroup("gemini").With("model", model)
	log.Info("generating image via gemini")

	client, err := g.init(ctx)
	if err != nil {
		return Result{}, err
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(params.Prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return Result{}, fmt.Errorf("gemini: %w", err)
	}

	res, err := firstImage(resp)
	if err != nil {
		return Result{}, err
	}
	log.Info("received image via gemini", "content-type", res.ContentType, "bytes", len(res.Data))
	return res, nil
}

func firstImage(resp *genai.GenerateContentResponse) (Result, error) {
	if resp == nil {
		return Result{}, errNoImage
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			contentType := part.InlineData.MIMEType
			if contentType == "" {
				contentType = "image/png"
			}
			return Result{Data: part.InlineData.Data, ContentType: contentType}, nil
		}
	}
	return Result{}, errNoImage
}
