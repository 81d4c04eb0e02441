package extract

import (
	"context"
	"strings"
	"unicode/utf8"
)

// TextExtractor decodes text/plain payloads as UTF-8, replacing invalid
// sequences rather than failing.
type TextExtractor struct{}

// Extract implements Extractor.
func (TextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
