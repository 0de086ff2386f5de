package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF reads every page of the document at path and returns the
// concatenated plain text, pages separated by blank lines. Pages whose
// text cannot be decoded are skipped; an error is returned only when no
// page yields any text.
func PDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Source: path, Err: err}
	}
	defer f.Close()

	var b bytes.Buffer
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil || text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", &ExtractionError{
			Source: path,
			Err:    fmt.Errorf("no extractable text in %d pages", pages),
		}
	}
	return out, nil
}

// pageText decodes one page, recovering from panics in the underlying
// content-stream parser on damaged documents.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("malformed page content")
		}
	}()
	return page.GetPlainText(nil)
}
