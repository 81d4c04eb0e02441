package util

import "testing"

func TestHashOwnerKeyStable(t *testing.T) {
	a := HashOwnerKey("cust-42")
	b := HashOwnerKey("cust-42")
	if a != b {
		t.Fatalf("expected stable hash, got %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashOwnerKey("cust-43") {
		t.Fatal("expected different owners to hash differently")
	}
}

func TestSanitizeFileName(t *testing.T) {
	if _, err := SanitizeFileName("../../etc/passwd"); err == nil {
		t.Fatal("expected traversal rejection")
	}
	if _, err := SanitizeFileName("   "); err == nil {
		t.Fatal("expected empty name rejection")
	}
	got, err := SanitizeFileName("deed copy/2024.pdf")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got != "deed copy_2024.pdf" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
}
