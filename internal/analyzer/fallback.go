package analyzer

import "context"

// Fallback is the deterministic analyzer used when no generative backend is
// configured or the configured one fails. It never returns an error.
type Fallback struct{}

// Analyze implements Analyzer.
func (Fallback) Analyze(ctx context.Context, text, documentType string) (Analysis, error) {
	_ = ctx
	_ = text
	_ = documentType
	return Normalize(Analysis{
		Summary:             "Document uploaded successfully",
		RelevantToInsurance: true,
	}), nil
}

var _ Analyzer = Fallback{}
