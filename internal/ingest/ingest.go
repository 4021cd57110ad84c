// Package ingest turns raw uploaded files into decoded document
// content: UTF-8 text for text kinds, a canonical PNG buffer for image
// kinds.
package ingest

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"ooad-assistant/internal/models"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrUnreadableFile  = errors.New("unreadable file")
)

// DetectKind resolves the file kind from the filename extension.
func DetectKind(filename string) (models.FileKind, error) {
	ext := filepath.Ext(filename)
	kind, ok := models.KindForExtension(ext)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	return kind, nil
}

// Process decodes an uploaded byte buffer. The buffer is staged in a
// uniquely named temp file which is removed on every exit path.
func Process(filename string, data []byte) (models.Content, error) {
	kind, err := DetectKind(filename)
	if err != nil {
		return models.Content{}, err
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(filename))
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return models.Content{}, fmt.Errorf("stage upload: %w", err)
	}
	defer os.Remove(tmpPath)

	return ReadFileContent(tmpPath, kind)
}

// ReadFileContent decodes the file at path according to its kind.
func ReadFileContent(path string, kind models.FileKind) (models.Content, error) {
	switch kind {
	case models.FileText:
		return readText(path)
	case models.FilePDF:
		return readPDF(path)
	case models.FileWord:
		return readDOCX(path)
	case models.FileImage:
		return readImage(path)
	default:
		return models.Content{}, fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
}

func readText(path string) (models.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Content{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return models.TextContent(models.FileText, string(data)), nil
}

// readPDF extracts text page by page, concatenated with newlines.
func readPDF(path string) (models.Content, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return models.Content{}, fmt.Errorf("%w: open PDF: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}

	return models.TextContent(models.FilePDF, strings.Join(pages, "\n")), nil
}

// readDOCX pulls paragraph text out of word/document.xml, concatenated
// with newlines.
func readDOCX(path string) (models.Content, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return models.Content{}, fmt.Errorf("%w: open DOCX: %v", ErrUnreadableFile, err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return models.Content{}, fmt.Errorf("%w: open document.xml: %v", ErrUnreadableFile, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return models.Content{}, fmt.Errorf("%w: read document.xml: %v", ErrUnreadableFile, err)
		}

		return models.TextContent(models.FileWord, strings.Join(paragraphs(string(raw)), "\n")), nil
	}

	return models.Content{}, fmt.Errorf("%w: DOCX has no word/document.xml", ErrUnreadableFile)
}

// paragraphs splits the document XML on w:p boundaries and strips the
// markup from each, keeping non-empty paragraph texts.
func paragraphs(doc string) []string {
	var out []string
	for _, chunk := range strings.Split(doc, "</w:p>") {
		if text := stripXMLTags(chunk); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func stripXMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}
