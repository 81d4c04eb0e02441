package analyzer

import (
	"context"
	"errors"
	"testing"
)

type stubAnalyzer struct {
	analysis Analysis
	err      error
	calls    int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, text, documentType string) (Analysis, error) {
	s.calls++
	return s.analysis, s.err
}

func TestFailoverUsesPrimaryResult(t *testing.T) {
	primary := &stubAnalyzer{analysis: Analysis{
		Summary:             "Inspection report covering roof damage",
		KeyPoints:           []string{"roof damage"},
		RelevantToInsurance: true,
	}}
	f := NewFailover(primary)

	analysis, err := f.Analyze(context.Background(), "roof damaged by ash fall", "inspection_report")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.Summary != "Inspection report covering roof damage" {
		t.Fatalf("expected primary summary, got %q", analysis.Summary)
	}
	if primary.calls != 1 {
		t.Fatalf("expected one primary call, got %d", primary.calls)
	}
}

func TestFailoverSubstitutesFallbackOnPrimaryError(t *testing.T) {
	primary := &stubAnalyzer{err: errors.New("service unavailable")}
	f := NewFailover(primary)

	analysis, err := f.Analyze(context.Background(), "some text", "photo")
	if err != nil {
		t.Fatalf("analyze must not surface primary errors, got %v", err)
	}
	if !analysis.RelevantToInsurance {
		t.Fatal("expected fallback relevantToInsurance true")
	}
	if analysis.Summary == "" {
		t.Fatal("expected fallback summary")
	}
	if analysis.KeyPoints == nil || analysis.RiskFactors == nil || analysis.Recommendations == nil {
		t.Fatal("expected well-formed collections from fallback")
	}
}

func TestFailoverWithoutPrimaryServesFallback(t *testing.T) {
	f := NewFailover(nil)

	analysis, err := f.Analyze(context.Background(), "", "other")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.Summary != "Document uploaded successfully" {
		t.Fatalf("unexpected fallback summary %q", analysis.Summary)
	}
}

func TestNormalizeFillsNilCollections(t *testing.T) {
	got := Normalize(Analysis{Summary: "s"})
	if got.KeyPoints == nil || got.ExtractedFields == nil || got.RiskFactors == nil || got.Recommendations == nil {
		t.Fatal("expected no nil collections")
	}
}
