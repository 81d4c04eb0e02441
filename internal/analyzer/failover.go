package analyzer

import (
	"context"

	"claims-backend/internal/shared/metrics"
	"claims-backend/internal/shared/telemetry"
)

// Failover composes a primary analyzer with a fallback. Analyze never returns
// an error: a primary failure is absorbed, logged, and replaced with the
// fallback result so a processed document always carries a usable analysis.
type Failover struct {
	Primary  Analyzer
	Fallback Analyzer
}

// NewFailover builds a Failover around the given primary. A nil primary means
// the fallback serves every request.
func NewFailover(primary Analyzer) *Failover {
	return &Failover{Primary: primary, Fallback: Fallback{}}
}

// Analyze implements Analyzer.
func (f *Failover) Analyze(ctx context.Context, text, documentType string) (Analysis, error) {
	if f.Primary != nil {
		analysis, err := f.Primary.Analyze(ctx, text, documentType)
		if err == nil {
			return Normalize(analysis), nil
		}
		telemetry.Warn("analyzer.fallback", map[string]any{
			"document_type": documentType,
			"text_len":      len(text),
			"err":           err.Error(),
		})
		metrics.IncAnalysisFallback()
	}

	fb := f.Fallback
	if fb == nil {
		fb = Fallback{}
	}
	analysis, _ := fb.Analyze(ctx, text, documentType)
	return Normalize(analysis), nil
}

var _ Analyzer = (*Failover)(nil)
