package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archiveBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func documentXML(t *testing.T, doc *Document) string {
	t.Helper()
	data, err := doc.Bytes()
	require.NoError(t, err)
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	t.Fatal("no word/document.xml in archive")
	return ""
}

const templateXML = `<w:document><w:body><w:p><w:r><w:t>Khách: {{name}}, địa chỉ: {{address}}</w:t></w:r></w:p><w:sectPr><w:pgSz/></w:sectPr></w:body></w:document>`

func newTestTemplate(t *testing.T) *Template {
	t.Helper()
	template, err := NewTemplate(archiveBytes(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   templateXML,
	}))
	require.NoError(t, err)
	return template
}

func TestNewTemplate_RequiresDocumentPart(t *testing.T) {
	_, err := NewTemplate(archiveBytes(t, map[string]string{"other.xml": "<x/>"}))
	require.Error(t, err)

	_, err = NewTemplate([]byte("not a zip"))
	require.Error(t, err)
}

func TestRender_SubstitutesAndEscapes(t *testing.T) {
	template := newTestTemplate(t)

	doc := template.Render(map[string]string{
		"name":    "Minh & Hoa <Cty>",
		"address": "12 Lê Lợi",
	})
	xml := documentXML(t, doc)
	assert.Contains(t, xml, "Minh &amp; Hoa &lt;Cty&gt;")
	assert.Contains(t, xml, "12 Lê Lợi")
	assert.NotContains(t, xml, "{{name}}")
	assert.NotContains(t, xml, "{{address}}")
}

func TestRender_NewlineBecomesRunBreak(t *testing.T) {
	template := newTestTemplate(t)

	doc := template.Render(map[string]string{"name": "dòng một\ndòng hai", "address": "x"})
	xml := documentXML(t, doc)
	assert.Contains(t, xml, "dòng một</w:t><w:br/><w:t>dòng hai")
}

func TestRender_DoesNotMutateTemplate(t *testing.T) {
	template := newTestTemplate(t)

	first := template.Render(map[string]string{"name": "A", "address": "B"})
	second := template.Render(map[string]string{"name": "C", "address": "D"})

	assert.Contains(t, documentXML(t, first), "Khách: A")
	assert.Contains(t, documentXML(t, second), "Khách: C")
}

func TestBodyAndSectPr(t *testing.T) {
	template := newTestTemplate(t)
	doc := template.Render(map[string]string{"name": "A", "address": "B"})

	body := doc.Body()
	assert.Contains(t, body, "Khách: A")
	assert.NotContains(t, body, "<w:sectPr>")
	assert.Equal(t, "<w:sectPr><w:pgSz/></w:sectPr>", doc.SectPr())
}

func TestMerge(t *testing.T) {
	template := newTestTemplate(t)

	docs := []*Document{
		template.Render(map[string]string{"name": "Một", "address": "x"}),
		template.Render(map[string]string{"name": "Hai", "address": "x"}),
		template.Render(map[string]string{"name": "Ba", "address": "x"}),
	}
	merged, err := Merge(docs)
	require.NoError(t, err)

	xml := documentXML(t, merged)
	assert.Equal(t, 2, strings.Count(xml, `<w:br w:type="page"/>`))
	assert.Contains(t, xml, "Khách: Một")
	assert.Contains(t, xml, "Khách: Hai")
	assert.Contains(t, xml, "Khách: Ba")
	// One page-layout trailer, at the end of the body.
	assert.Equal(t, 1, strings.Count(xml, "<w:sectPr>"))
	assert.True(t, strings.HasSuffix(xml, "<w:sectPr><w:pgSz/></w:sectPr></w:body></w:document>"))
}

func TestMerge_SingleAndEmpty(t *testing.T) {
	template := newTestTemplate(t)

	merged, err := Merge([]*Document{template.Render(map[string]string{"name": "Một", "address": "x"})})
	require.NoError(t, err)
	xml := documentXML(t, merged)
	assert.NotContains(t, xml, `<w:br w:type="page"/>`)
	assert.Equal(t, 1, strings.Count(xml, "<w:sectPr>"))

	_, err = Merge(nil)
	require.Error(t, err)
}
