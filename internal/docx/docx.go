// Package docx renders a Word template by placeholder substitution and merges
// rendered documents by splicing their body XML. The archive layout and the
// {{placeholder}} delimiters match the report template shipped in resources/.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const documentPart = "word/document.xml"

// Template is a parsed .docx archive ready to be rendered any number of times.
type Template struct {
	names []string
	files map[string][]byte
}

func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return NewTemplate(data)
}

func NewTemplate(data []byte) (*Template, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open template archive: %w", err)
	}

	template := &Template{files: make(map[string][]byte, len(reader.File))}
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		template.names = append(template.names, file.Name)
		template.files[file.Name] = content
	}
	if _, ok := template.files[documentPart]; !ok {
		return nil, fmt.Errorf("template has no %s", documentPart)
	}
	return template, nil
}

// Render substitutes {{key}} placeholders in the document part with
// XML-escaped values and returns the rendered document.
func (t *Template) Render(fields map[string]string) *Document {
	xml := string(t.files[documentPart])
	for key, value := range fields {
		xml = strings.ReplaceAll(xml, "{{"+key+"}}", escapeXML(value))
	}

	doc := &Document{
		names: append([]string(nil), t.names...),
		files: make(map[string][]byte, len(t.files)),
	}
	for name, content := range t.files {
		doc.files[name] = content
	}
	doc.files[documentPart] = []byte(xml)
	return doc
}

func escapeXML(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	// The visit-report fields contain line breaks for multi-elevator lists;
	// a raw newline would be swallowed by Word, so emit a run break.
	escaped := replacer.Replace(value)
	return strings.ReplaceAll(escaped, "\n", "</w:t><w:br/><w:t>")
}
