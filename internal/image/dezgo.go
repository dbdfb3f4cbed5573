package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmorgan81/autologo/internal/log"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const dezgoURL = "https://api.dezgo.com/text2image"

type DezgoGenerator struct {
	Client  *http.Client
	Key     string
	BaseURL string
}

func NewDezgoGenerator(i *do.Injector) (*DezgoGenerator, error) {
	return &DezgoGenerator{
		Client: do.MustInvoke[*http.Client](i),
		Key:    do.MustInvokeNamed[string](i, "dezgo_key"),
	}, nil
}

func (g *DezgoGenerator) Generate(ctx context.Context, params Params) (Result, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("dezgo").With("model", params.Model)
	log.Info("generating image via api.dezgo.com")

	body, err := json.Marshal(params)
	if err != nil {
		return Result{}, err
	}

	url := lo.Ternary(g.BaseURL != "", g.BaseURL, dezgoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("X-Dezgo-Key", g.Key)

	resp, err := g.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("dezgo: status %d: %s", resp.StatusCode, data)
	}

	seed := resp.Header.Get("x-input-seed")
	log.Info("received image via api.dezgo.com", "seed", seed, "bytes", len(data))

	contentType := resp.Header.Get("Content-Type")
	return Result{
		Data:        data,
		ContentType: lo.Ternary(contentType != "", contentType, "image/png"),
		Seed:        seed,
	}, nil
}
