package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoOCR is returned when no OCR engine is installed.
var ErrNoOCR = errors.New("tesseract not found in PATH")

// Image runs OCR over the image at path and returns the recognized
// text. It shells out to tesseract, which must be installed separately.
func Image(ctx context.Context, path string) (string, error) {
	bin, err := exec.LookPath("tesseract")
	if err != nil {
		return "", &ExtractionError{Source: path, Err: ErrNoOCR}
	}

	// "-" writes the recognized text to stdout.
	cmd := exec.CommandContext(ctx, bin, path, "-")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ExtractionError{
			Source: path,
			Err:    fmt.Errorf("tesseract: %v: %s", err, strings.TrimSpace(stderr.String())),
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", &ExtractionError{
			Source: path,
			Err:    errors.New("no text recognized in image"),
		}
	}
	return text, nil
}
