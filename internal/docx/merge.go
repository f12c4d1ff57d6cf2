package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// pageBreak separates two merged visit reports.
const pageBreak = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`

var (
	bodyRe         = regexp.MustCompile(`(?s)<w:body>(.*?)</w:body>`)
	sectPrRe       = regexp.MustCompile(`(?s)<w:sectPr.*?</w:sectPr>`)
	trailingSectRe = regexp.MustCompile(`(?s)<w:sectPr.*?</w:sectPr>\s*$`)
	wholeBodyRe    = regexp.MustCompile(`(?s)<w:body>.*?</w:body>`)
)

// Document is a rendered .docx held in memory. The merge step works on the
// body and the page-layout trailer (sectPr) without exposing the XML to
// callers.
type Document struct {
	names []string
	files map[string][]byte
}

// Body returns the content between <w:body> tags with the page-layout
// trailer stripped.
func (d *Document) Body() string {
	match := bodyRe.FindStringSubmatch(string(d.files[documentPart]))
	if match == nil {
		return ""
	}
	return strings.TrimRight(trailingSectRe.ReplaceAllString(match[1], ""), " \t\r\n")
}

// SectPr returns the document's page-layout trailer.
func (d *Document) SectPr() string {
	return sectPrRe.FindString(string(d.files[documentPart]))
}

// WithBody returns a copy of the document whose body is replaced wholesale.
func (d *Document) WithBody(body string) *Document {
	xml := wholeBodyRe.ReplaceAllLiteralString(
		string(d.files[documentPart]),
		"<w:body>"+body+"</w:body>",
	)
	out := &Document{
		names: append([]string(nil), d.names...),
		files: make(map[string][]byte, len(d.files)),
	}
	for name, content := range d.files {
		out.files[name] = content
	}
	out.files[documentPart] = []byte(xml)
	return out
}

// Bytes serializes the document back into a .docx archive.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, name := range d.names {
		w, err := writer.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(d.files[name]); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Merge concatenates the bodies of all documents separated by explicit page
// breaks, keeping only the first document's page-layout trailer. The first
// document serves as the base for everything outside the body.
func Merge(docs []*Document) (*Document, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("nothing to merge")
	}
	bodies := make([]string, 0, len(docs))
	for _, doc := range docs {
		bodies = append(bodies, doc.Body())
	}
	merged := strings.Join(bodies, pageBreak)
	return docs[0].WithBody(merged + docs[0].SectPr()), nil
}
