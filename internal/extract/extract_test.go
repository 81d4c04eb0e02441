package extract

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDispatchPlainText(t *testing.T) {
	d := DefaultDispatcher(0, nil)

	got := d.Dispatch(context.Background(), "text/plain", []byte("hello"))
	if got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestDispatchPlainTextReplacesInvalidUTF8(t *testing.T) {
	d := DefaultDispatcher(0, nil)

	got := d.Dispatch(context.Background(), "text/plain; charset=utf-8", []byte{'h', 'i', 0xff})
	if got != "hi�" {
		t.Fatalf("expected replacement rune, got %q", got)
	}
}

func TestDispatchUnhandledTypeReturnsEmpty(t *testing.T) {
	d := DefaultDispatcher(0, nil)

	if got := d.Dispatch(context.Background(), "application/msword", []byte("binary")); got != "" {
		t.Fatalf("expected empty text for unhandled type, got %q", got)
	}
	if d.Handles("application/msword") {
		t.Fatal("expected msword to be unhandled")
	}
}

func TestDispatchAbsorbsExtractorError(t *testing.T) {
	d := NewDispatcher(0)
	d.Register("image/*", ExtractorFunc(func(ctx context.Context, data []byte) (string, error) {
		return "", errors.New("ocr binary missing")
	}))

	if got := d.Dispatch(context.Background(), "image/png", []byte{0x89, 'P', 'N', 'G'}); got != "" {
		t.Fatalf("expected empty text on soft failure, got %q", got)
	}
}

func TestDispatchPrefixPatternMatchesSubtypes(t *testing.T) {
	d := NewDispatcher(0)
	d.Register("image/*", ExtractorFunc(func(ctx context.Context, data []byte) (string, error) {
		return "seen", nil
	}))

	for _, mt := range []string{"image/png", "image/jpeg", "image/gif"} {
		if got := d.Dispatch(context.Background(), mt, nil); got != "seen" {
			t.Fatalf("expected prefix match for %s, got %q", mt, got)
		}
	}
	if d.Handles("application/pdf") {
		t.Fatal("expected pdf to be unhandled in this registry")
	}
}

func TestDispatchHonorsTimeout(t *testing.T) {
	d := NewDispatcher(10 * time.Millisecond)
	d.Register("image/*", ExtractorFunc(func(ctx context.Context, data []byte) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(2 * time.Second):
			return "too slow", nil
		}
	}))

	start := time.Now()
	if got := d.Dispatch(context.Background(), "image/png", nil); got != "" {
		t.Fatalf("expected timeout to yield empty text, got %q", got)
	}
	if time.Since(start) > time.Second {
		t.Fatal("dispatch did not respect the timeout")
	}
}

func TestPDFExtractorRejectsGarbage(t *testing.T) {
	_, err := PDFExtractor{}.Extract(context.Background(), []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected error for non-PDF bytes")
	}
}

type fakeRunner struct {
	stdout []byte
	err    error
}

func (f fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return f.stdout, nil, f.err
}

func TestOCRExtractorUsesRunnerOutput(t *testing.T) {
	ocr := &OCRExtractor{Bin: "tesseract", Lang: "eng", Runner: fakeRunner{stdout: []byte("DEED OF TRUST\n")}}

	got, err := ocr.Extract(context.Background(), []byte{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "DEED OF TRUST" {
		t.Fatalf("expected trimmed OCR output, got %q", got)
	}
}

func TestOCRExtractorPropagatesRunnerError(t *testing.T) {
	ocr := &OCRExtractor{Runner: fakeRunner{err: errors.New("exit status 1")}}

	if _, err := ocr.Extract(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected runner error to propagate")
	}
}
