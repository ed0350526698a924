package normalizer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsMC = "http://schemas.openxmlformats.org/markup-compatibility/2006"

	docxBodyPart = "word/document.xml"

	// maxBodyPartBytes caps the decompressed size of word/document.xml.
	maxBodyPartBytes = 64 << 20
)

// skippedElements are subtrees that never contribute raw text: property blocks
// (tab stops live in pPr), embedded OLE objects, deleted revisions and field
// instructions. Drawings and VML shapes are walked so text box paragraphs
// (w:txbxContent) survive; images inside them carry no w:t and drop out.
var skippedElements = map[string]bool{
	"pPr":       true,
	"rPr":       true,
	"tblPr":     true,
	"trPr":      true,
	"tcPr":      true,
	"sectPr":    true,
	"object":    true,
	"delText":   true,
	"instrText": true,
}

// ExtractDocxText returns the raw text of a DOCX document. Formatting, images and
// embedded objects are discarded; paragraphs (including table cell paragraphs)
// are separated by a blank line.
func ExtractDocxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening ZIP archive: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("missing required file: %s", docxBodyPart)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", docxBodyPart, err)
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := readParagraphs(io.LimitReader(rc, maxBodyPartBytes))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", docxBodyPart, err)
	}
	return strings.TrimSpace(strings.Join(paragraphs, "\n\n")), nil
}

// readParagraphs walks document.xml as a token stream so paragraphs keep their
// document order across body text, tables and text boxes. Of an
// mc:AlternateContent block only the mc:Fallback branch is read, since Choice
// and Fallback carry the same text.
func readParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		sawRoot    bool
		depth      int
	)

	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !sawRoot {
				if t.Name.Local != "document" {
					return nil, fmt.Errorf("unexpected root element %q", t.Name.Local)
				}
				sawRoot = true
				continue
			}
			if skippedElements[t.Name.Local] || (t.Name.Space == nsMC && t.Name.Local == "Choice") {
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			if t.Name.Space != nsW {
				continue
			}
			switch t.Name.Local {
			case "p":
				// A text box paragraph nested in a run ends the text before it.
				if depth > 0 {
					flush()
				}
				depth++
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			case "noBreakHyphen":
				current.WriteByte('-')
			}
		case xml.EndElement:
			if t.Name.Space != nsW {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
				if depth > 0 {
					depth--
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if !sawRoot {
		return nil, errors.New("empty document")
	}
	flush()
	return paragraphs, nil
}
