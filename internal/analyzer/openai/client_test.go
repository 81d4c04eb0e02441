package openai

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "gpt-4o", 0); err == nil {
		t.Fatal("expected missing api key error")
	}
	if _, err := NewClient("sk-test", "", 0); err == nil {
		t.Fatal("expected missing model error")
	}
	if _, err := NewClient("sk-test", "gpt-4o", 0); err != nil {
		t.Fatalf("valid client: %v", err)
	}
}

func TestNewClientAppliesConfiguredTimeout(t *testing.T) {
	client, err := NewClient("sk-test", "gpt-4o", 15*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.httpClient.Timeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %v", client.httpClient.Timeout)
	}

	client, err = NewClient("sk-test", "gpt-4o", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.httpClient.Timeout != 60*time.Second {
		t.Fatalf("expected 60s default timeout, got %v", client.httpClient.Timeout)
	}

	t.Setenv("OPENAI_TIMEOUT_SECONDS", "5")
	client, err = NewClient("sk-test", "gpt-4o", 15*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Fatalf("expected env override of 5s, got %v", client.httpClient.Timeout)
	}
}

func TestDecodeAnalysisStringifiesLooseFields(t *testing.T) {
	raw := []byte(`{
		"summary": "Deed for a property on lava zone 2",
		"keyPoints": ["Property in lava zone 2"],
		"relevantToInsurance": true,
		"extractedFields": {"address": "123 Ocean Dr", "assessedValue": 450000},
		"riskFactors": ["lava zone 2"],
		"recommendations": ["Consider HPIA coverage"]
	}`)

	analysis, err := decodeAnalysis(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if analysis.ExtractedFields["address"] != "123 Ocean Dr" {
		t.Fatalf("expected string field preserved, got %q", analysis.ExtractedFields["address"])
	}
	if analysis.ExtractedFields["assessedValue"] != "450000" {
		t.Fatalf("expected numeric field stringified, got %q", analysis.ExtractedFields["assessedValue"])
	}
	if !analysis.RelevantToInsurance {
		t.Fatal("expected relevantToInsurance true")
	}
}

func TestDecodeAnalysisDefaultsMissingCollections(t *testing.T) {
	analysis, err := decodeAnalysis([]byte(`{"summary":"minimal"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if analysis.KeyPoints == nil || analysis.RiskFactors == nil || analysis.Recommendations == nil {
		t.Fatal("expected collections to be non-nil after normalization")
	}
	if !analysis.RelevantToInsurance {
		t.Fatal("expected relevantToInsurance to default true")
	}
}

func TestDecodeAnalysisRejectsNonJSON(t *testing.T) {
	if _, err := decodeAnalysis([]byte("I could not analyze this")); err == nil {
		t.Fatal("expected error for non-JSON content")
	}
}

func TestExcerptBounded(t *testing.T) {
	long := strings.Repeat("a", excerptLimit+100)
	if got := excerpt(long); len(got) != excerptLimit {
		t.Fatalf("expected excerpt of %d chars, got %d", excerptLimit, len(got))
	}
	if got := excerpt("short"); got != "short" {
		t.Fatalf("expected short text unchanged, got %q", got)
	}
}

func TestExcerptDoesNotSplitRunes(t *testing.T) {
	// Multi-byte runes straddle the byte limit.
	long := strings.Repeat("é", excerptLimit)
	got := excerpt(long)
	if len(got) > excerptLimit {
		t.Fatalf("expected at most %d bytes, got %d", excerptLimit, len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("expected excerpt to stay valid UTF-8")
	}
	if strings.Count(got, "é")*2 != len(got) {
		t.Fatalf("expected only whole runes in excerpt, got %d bytes", len(got))
	}
}
