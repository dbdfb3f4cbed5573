package image

import "context"

type Params struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Seed   string `json:"seed,omitempty"`
}

type Result struct {
	Data        []byte
	ContentType string
	Seed        string
}

type Generator interface {
	Generate(context.Context, Params) (Result, error)
}
