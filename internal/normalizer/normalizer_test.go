package normalizer_test

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medocr/internal/domain"
	"medocr/internal/normalizer"
)

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>
      <w:r><w:rPr><w:b/></w:rPr><w:t>Patient:</w:t></w:r>
      <w:r><w:t xml:space="preserve"> John Doe</w:t></w:r>
    </w:p>
    <w:p><w:r><w:t>BP</w:t><w:tab/><w:t>120/80</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Hemoglobin</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>13.5</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:delText>removed</w:delText></w:r></w:p>
    <w:sectPr><w:pgSz w:w="12240"/></w:sectPr>
  </w:body>
</w:document>`

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestNormalizer() *normalizer.Normalizer {
	return normalizer.New(nil)
}

func TestNormalize_SupportedTypes(t *testing.T) {
	content := []byte("fake document bytes")
	tests := []struct {
		mime   string
		method domain.InputMethod
	}{
		{domain.MimeJPEG, domain.InputMethodImage},
		{domain.MimePNG, domain.InputMethodImage},
		{domain.MimeWebP, domain.InputMethodImage},
		{domain.MimeHEIC, domain.InputMethodImage},
		{domain.MimeHEIF, domain.InputMethodImage},
		{domain.MimePDF, domain.InputMethodPDF},
		{domain.MimeText, domain.InputMethodPlainText},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			payload, err := n.Normalize(&domain.UploadedDocument{RawBytes: content, DeclaredMimeType: tt.mime})
			require.NoError(t, err)

			assert.Equal(t, tt.mime, payload.EffectiveMimeType)
			assert.Equal(t, tt.method, payload.InputMethod)

			decoded, err := base64.StdEncoding.DecodeString(payload.Base64Content)
			require.NoError(t, err)
			assert.Equal(t, content, decoded)
		})
	}
}

func TestNormalize_UnsupportedType(t *testing.T) {
	_, err := newTestNormalizer().Normalize(&domain.UploadedDocument{
		RawBytes:         []byte("PK\x03\x04"),
		DeclaredMimeType: "application/zip",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedMediaType))
	assert.Contains(t, err.Error(), "Unsupported MIME type: application/zip")
}

func TestNormalize_CanonicalizesDeclaredType(t *testing.T) {
	n := newTestNormalizer()

	payload, err := n.Normalize(&domain.UploadedDocument{RawBytes: []byte("x"), DeclaredMimeType: "IMAGE/JPG"})
	require.NoError(t, err)
	assert.Equal(t, domain.MimeJPEG, payload.EffectiveMimeType)

	payload, err = n.Normalize(&domain.UploadedDocument{RawBytes: []byte("BP: 120/80"), DeclaredMimeType: "text/plain; charset=utf-8"})
	require.NoError(t, err)
	assert.Equal(t, domain.MimeText, payload.EffectiveMimeType)
	assert.Equal(t, domain.InputMethodPlainText, payload.InputMethod)
}

func TestNormalize_SniffsOctetStream(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	payload, err := newTestNormalizer().Normalize(&domain.UploadedDocument{
		RawBytes:         png,
		DeclaredMimeType: "application/octet-stream",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.MimePNG, payload.EffectiveMimeType)
	assert.Equal(t, domain.InputMethodImage, payload.InputMethod)
}

func TestNormalize_DocxConvertedToText(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   docxBody,
	})

	payload, err := newTestNormalizer().Normalize(&domain.UploadedDocument{
		RawBytes:         data,
		DeclaredMimeType: domain.MimeDOCX,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MimeText, payload.EffectiveMimeType)
	assert.Equal(t, domain.InputMethodDocxAsText, payload.InputMethod)

	text, err := base64.StdEncoding.DecodeString(payload.Base64Content)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Patient: John Doe")
	assert.Contains(t, string(text), "BP\t120/80")
	assert.Contains(t, string(text), "Hemoglobin")
	assert.NotContains(t, string(text), "removed")
}

func TestNormalize_CorruptDocx(t *testing.T) {
	_, err := newTestNormalizer().Normalize(&domain.UploadedDocument{
		RawBytes:         []byte("this is not a zip archive"),
		DeclaredMimeType: domain.MimeDOCX,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDocumentConversionFailed))
}

func TestExtractDocxText_MissingBodyPart(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/styles.xml": `<w:styles/>`})

	_, err := normalizer.ExtractDocxText(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestExtractDocxText_ParagraphsSeparated(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/document.xml": docxBody})

	text, err := normalizer.ExtractDocxText(data)
	require.NoError(t, err)
	assert.Equal(t, "Patient: John Doe\n\nBP\t120/80\n\nHemoglobin\n\n13.5", text)
}

const docxTextBoxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
    xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"
    xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
    xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
    xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape"
    xmlns:v="urn:schemas-microsoft-com:vml">
  <w:body>
    <w:p><w:r><w:t>Header line</w:t></w:r></w:p>
    <w:p>
      <w:r>
        <mc:AlternateContent>
          <mc:Choice Requires="wps">
            <w:drawing>
              <wp:anchor>
                <a:graphic><a:graphicData>
                  <wps:wsp><wps:txbx>
                    <w:txbxContent><w:p><w:r><w:t>Patient: John Doe</w:t></w:r></w:p></w:txbxContent>
                  </wps:txbx></wps:wsp>
                </a:graphicData></a:graphic>
              </wp:anchor>
            </w:drawing>
          </mc:Choice>
          <mc:Fallback>
            <w:pict>
              <v:shape><v:textbox>
                <w:txbxContent><w:p><w:r><w:t>Patient: John Doe</w:t></w:r></w:p></w:txbxContent>
              </v:textbox></v:shape>
            </w:pict>
          </mc:Fallback>
        </mc:AlternateContent>
      </w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Before</w:t></w:r>
      <w:r><w:drawing><wp:inline><a:graphic><a:graphicData>
        <wps:wsp><wps:txbx><w:txbxContent><w:p><w:r><w:t>MRN 12345</w:t></w:r></w:p></w:txbxContent></wps:txbx></wps:wsp>
      </a:graphicData></a:graphic></wp:inline></w:drawing></w:r>
      <w:r><w:t>After</w:t></w:r>
    </w:p>
    <w:p><w:r><w:drawing><wp:inline><a:graphic><a:graphicData><pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"/></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractDocxText_TextBoxes(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/document.xml": docxTextBoxBody})

	text, err := normalizer.ExtractDocxText(data)
	require.NoError(t, err)
	assert.Equal(t, "Header line\n\nPatient: John Doe\n\nBefore\n\nMRN 12345\n\nAfter", text)
}

func TestResolve_MultipartWins(t *testing.T) {
	doc, err := newTestNormalizer().Resolve(normalizer.Source{
		HasFile:      true,
		FileBytes:    []byte("%PDF-1.4"),
		FileMimeType: domain.MimePDF,
		FileName:     "report.pdf",
		FileBase64:   base64.StdEncoding.EncodeToString([]byte("other")),
		MimeType:     domain.MimeText,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceMultipart, doc.SourceKind)
	assert.Equal(t, []byte("%PDF-1.4"), doc.RawBytes)
	assert.Equal(t, domain.MimePDF, doc.DeclaredMimeType)
	assert.Equal(t, "report.pdf", doc.FileName)
}

func TestResolve_Base64(t *testing.T) {
	doc, err := newTestNormalizer().Resolve(normalizer.Source{
		FileBase64: base64.StdEncoding.EncodeToString([]byte("BP: 120/80")),
		MimeType:   domain.MimeText,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceBase64JSON, doc.SourceKind)
	assert.Equal(t, "BP: 120/80", string(doc.RawBytes))
}

func TestResolve_MissingInput(t *testing.T) {
	tests := []struct {
		name string
		src  normalizer.Source
	}{
		{"nothing", normalizer.Source{}},
		{"base64 without mime", normalizer.Source{FileBase64: "aGVsbG8="}},
		{"mime without base64", normalizer.Source{MimeType: domain.MimePNG}},
		{"empty file part", normalizer.Source{HasFile: true}},
		{"invalid base64", normalizer.Source{FileBase64: "!!!not base64!!!", MimeType: domain.MimePNG}},
		{"data uri with empty payload", normalizer.Source{FileBase64: "data:image/png;base64,", MimeType: domain.MimePNG}},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Resolve(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMissingInput))
		})
	}
}

func TestDecodeBase64(t *testing.T) {
	want := []byte("hello, world?>")
	std := base64.StdEncoding.EncodeToString(want)

	tests := map[string]string{
		"standard":    std,
		"data uri":    "data:image/png;base64," + std,
		"unpadded":    base64.RawStdEncoding.EncodeToString(want),
		"url safe":    base64.URLEncoding.EncodeToString(want),
		"line breaks": std[:8] + "\n" + std[8:],
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalizer.DecodeBase64(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestEffectiveMimeType(t *testing.T) {
	assert.Equal(t, domain.MimeJPEG, normalizer.EffectiveMimeType("image/pjpeg", nil))
	assert.Equal(t, domain.MimePDF, normalizer.EffectiveMimeType("", []byte("%PDF-1.7\n")))
	assert.Equal(t, domain.MimeText, normalizer.EffectiveMimeType("", []byte("BP: 120/80")))
}
