package extract

import (
	"context"
	"strings"
	"time"

	"claims-backend/internal/shared/metrics"
	"claims-backend/internal/shared/telemetry"
)

// Extractor converts raw bytes of one format into best-effort plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// Extract implements Extractor.
func (f ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

type prefixRule struct {
	prefix    string
	extractor Extractor
}

// Dispatcher selects an extractor by declared media type. Adding a format is
// a registry addition; a media type with no extractor degrades to empty text.
type Dispatcher struct {
	exact    map[string]Extractor
	prefixes []prefixRule
	timeout  time.Duration
}

// NewDispatcher constructs an empty dispatcher. A timeout of zero means the
// caller's context bounds each extraction.
func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		exact:   make(map[string]Extractor),
		timeout: timeout,
	}
}

// Register maps a media type to an extractor. Patterns of the form "image/*"
// match any subtype of the given type.
func (d *Dispatcher) Register(mediaType string, ex Extractor) {
	mediaType = normalizeMediaType(mediaType)
	if suffix := "/*"; strings.HasSuffix(mediaType, suffix) {
		d.prefixes = append(d.prefixes, prefixRule{
			prefix:    strings.TrimSuffix(mediaType, "*"),
			extractor: ex,
		})
		return
	}
	d.exact[mediaType] = ex
}

// Dispatch extracts text for the declared media type. Extractor errors are
// absorbed: they are logged, counted, and replaced with empty text so the
// pipeline can continue with whatever evidence exists. Only the registry
// lookup and the extractors themselves run here; no error escapes.
func (d *Dispatcher) Dispatch(ctx context.Context, mediaType string, data []byte) string {
	normalized := normalizeMediaType(mediaType)
	ex := d.lookup(normalized)
	if ex == nil {
		return ""
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	text, err := ex.Extract(ctx, data)
	if err != nil {
		telemetry.Warn("extract.soft_failure", map[string]any{
			"media_type": normalized,
			"bytes":      len(data),
			"err":        err.Error(),
		})
		metrics.IncExtractionSoftFailure()
		return ""
	}
	return text
}

// Handles reports whether an extractor is registered for the media type.
func (d *Dispatcher) Handles(mediaType string) bool {
	return d.lookup(normalizeMediaType(mediaType)) != nil
}

func (d *Dispatcher) lookup(normalized string) Extractor {
	if ex, ok := d.exact[normalized]; ok {
		return ex
	}
	for _, rule := range d.prefixes {
		if strings.HasPrefix(normalized, rule.prefix) {
			return rule.extractor
		}
	}
	return nil
}

func normalizeMediaType(mediaType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
}
