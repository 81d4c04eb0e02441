package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner lets tests stub the external OCR command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// OCRExtractor recognizes text in images by shelling out to tesseract.
// The context bounds the run; pathological images are cut off by the
// dispatcher timeout rather than running unbounded.
type OCRExtractor struct {
	Bin    string
	Lang   string
	Runner Runner
}

// NewOCRExtractor constructs an OCRExtractor backed by the real binary.
func NewOCRExtractor(bin, lang string) *OCRExtractor {
	if bin == "" {
		bin = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &OCRExtractor{Bin: bin, Lang: lang, Runner: execRunner{}}
}

// Extract implements Extractor. The image bytes are staged in a temp file
// because tesseract reads from a path; the file is removed on every exit.
func (e *OCRExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "ocr-*.img")
	if err != nil {
		return "", fmt.Errorf("ocr temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("ocr stage image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("ocr stage image: %w", err)
	}

	runner := e.Runner
	if runner == nil {
		runner = execRunner{}
	}
	stdout, stderr, err := runner.Run(ctx, e.Bin, tmp.Name(), "stdout", "-l", e.Lang)
	if err != nil {
		return "", fmt.Errorf("ocr run: %w: %s", err, truncate(string(stderr), 512))
	}
	return strings.TrimSpace(string(stdout)), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
