// Package knowledge loads the chatbot's fixed document set from disk.
package knowledge

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"diabot/internal/util"

	"github.com/ledongthuc/pdf"
)

const (
	PlaceholderName = "knowledge"
	PlaceholderText = "No knowledge base available."
)

// Document is one knowledge file. Name is the filename without extension.
type Document struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
	Text string `json:"text"`
}

// Load reads every file in dir whose extension is listed in exts, in filename
// order. A missing or empty directory yields the single placeholder document.
func Load(dir string, exts []string) ([]Document, error) {
	if len(exts) == 0 {
		exts = []string{".txt"}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return placeholder(), nil
		}
		return nil, fmt.Errorf("read knowledge dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if hasExt(e.Name(), exts) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		text, err := readText(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: path,
			Text: text,
		})
	}
	if len(docs) == 0 {
		return placeholder(), nil
	}
	return docs, nil
}

func placeholder() []Document {
	return []Document{{Name: PlaceholderName, Text: PlaceholderText}}
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func readText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read knowledge file %s: %w", filepath.Base(path), err)
	}
	return util.SanitizeText(string(b)), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text %s: %w", filepath.Base(path), err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("read extracted text %s: %w", filepath.Base(path), err)
	}
	return util.SanitizeText(buf.String()), nil
}
