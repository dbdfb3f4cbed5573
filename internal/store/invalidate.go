package store

import (
	"context"
)

type Invalidator interface {
	Invalidate(context.Context, []string) error
}

// NopInvalidator is used when exports are not served through a CDN.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context, []string) error {
	return nil
}
