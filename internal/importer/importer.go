// Package importer converts supported file formats into markdown text
// the annotation pipeline understands. Each importer emits ATX
// headings for whatever structure the source format carries, so
// imported documents section the same way native markdown does.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nick-skriabin/readtime/internal/document"
)

// Importer converts raw document bytes into markdown text.
type Importer interface {
	Import(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// KindFor returns the document kind of imported output. Converted
// formats come out as markdown; plain text stays plain and gets no
// heading structure.
func KindFor(filename string) document.Kind {
	if strings.EqualFold(filepath.Ext(filename), ".txt") {
		return document.KindPlain
	}
	return document.KindMarkdown
}

// Load reads path from disk and imports it.
func Load(path string) (string, error) {
	imp, err := ForFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return imp.Import(f, filepath.Base(path))
}
