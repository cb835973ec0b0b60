package importer

import (
	"io"
)

// MarkdownImporter passes markdown through untouched.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TextImporter passes plain text through untouched. Text carries no
// heading structure, so plain documents are held without annotations.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
