package param

import (
	"context"
	"fmt"
	"os"
)

type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}

// EnvFetcher reads parameters from the process environment.
type EnvFetcher struct{}

func (EnvFetcher) Fetch(_ context.Context, name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("environment variable %s not set", name)
	}
	return v, nil
}

// Secret resolves a secret that is either given directly in the
// environment variable named key, or stored in the parameter whose path is
// held by key+"_PARAM". An unset secret resolves to "".
func Secret(ctx context.Context, f Fetcher, key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	path := os.Getenv(key + "_PARAM")
	if path == "" {
		return "", nil
	}
	return f.Fetch(ctx, path)
}
