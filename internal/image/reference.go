package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrBadReference = errors.New("image: unsupported reference")

// EncodeReference packs image bytes into a data URL.
func EncodeReference(data []byte, contentType string) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

// DecodeReference unpacks a data URL created by EncodeReference.
func DecodeReference(ref string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return nil, "", ErrBadReference
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrBadReference
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", ErrBadReference
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("image: decode reference: %w", err)
	}
	return data, contentType, nil
}
