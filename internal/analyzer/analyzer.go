package analyzer

import "context"

// Analysis is the structured result of analyzing a document's extracted text.
// Field names follow the stored JSON shape consumed by the claims UI.
type Analysis struct {
	Summary             string            `json:"summary"`
	KeyPoints           []string          `json:"keyPoints"`
	RelevantToInsurance bool              `json:"relevantToInsurance"`
	ExtractedFields     map[string]string `json:"extractedFields"`
	RiskFactors         []string          `json:"riskFactors"`
	Recommendations     []string          `json:"recommendations"`
}

// Analyzer maps extracted text plus a document-type hint to an Analysis.
type Analyzer interface {
	Analyze(ctx context.Context, text, documentType string) (Analysis, error)
}

// Normalize fills nil collections so every stored Analysis is well-formed:
// keyPoints, riskFactors and recommendations are always arrays, extractedFields
// always an object.
func Normalize(a Analysis) Analysis {
	if a.KeyPoints == nil {
		a.KeyPoints = []string{}
	}
	if a.ExtractedFields == nil {
		a.ExtractedFields = map[string]string{}
	}
	if a.RiskFactors == nil {
		a.RiskFactors = []string{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	return a
}
