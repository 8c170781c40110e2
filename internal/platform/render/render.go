// Package render defines the Renderer collaborator contract and its
// concrete .docx implementation, turning a generated cover letter body
// into an uploadable document.
package render

import (
	"fmt"

	"github.com/gomutex/godocx"

	"github.com/mwozniak/jobrank/internal/errs"
)

// Renderer turns a cover letter body into a saved document file.
type Renderer interface {
	RenderCoverLetter(body, outPath string) error
}

// DocxRenderer implements Renderer over godocx.
type DocxRenderer struct{}

// NewDocxRenderer constructs a DocxRenderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// RenderCoverLetter writes body as a single-paragraph-per-line .docx
// file at outPath.
func (r *DocxRenderer) RenderCoverLetter(body, outPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("%w: create document: %v", errs.ErrFetch, err)
	}

	for _, line := range splitParagraphs(body) {
		doc.AddParagraph(line)
	}

	if err := doc.SaveTo(outPath); err != nil {
		return fmt.Errorf("%w: save document to %s: %v", errs.ErrFetch, outPath, err)
	}
	return nil
}

func splitParagraphs(body string) []string {
	var out []string
	start := 0
	for i := 0; i < len(body); i++ {
		if body[i] == '\n' {
			out = append(out, body[start:i])
			start = i + 1
		}
	}
	out = append(out, body[start:])
	return out
}
