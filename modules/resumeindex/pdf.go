package resumeindex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/mwozniak/jobrank/internal/errs"
)

// ExtractText reads every page of a PDF résumé and returns the
// concatenated text content, in page order. pdfcpu does not expose a
// dedicated text-extraction call, so content streams are extracted to a
// scratch directory and read back.
func ExtractText(path string) (string, error) {
	tempDir, err := os.MkdirTemp("", "jobrank-resume-*")
	if err != nil {
		return "", fmt.Errorf("%w: create scratch dir: %v", errs.ErrParse, err)
	}
	defer os.RemoveAll(tempDir)

	if err := api.ExtractContentFile(path, tempDir, nil, nil); err != nil {
		return "", fmt.Errorf("%w: extract content from %s: %v", errs.ErrParse, path, err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return "", fmt.Errorf("%w: read scratch dir: %v", errs.ErrParse, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var b strings.Builder
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(tempDir, e.Name()))
		if err != nil {
			continue
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
