// Package docx is a minimal WordprocessingML (.docx) round-tripper. It keeps
// every zip part byte-for-byte and splits word/document.xml into ordered body
// blocks (paragraphs, tables, anything else) held as raw XML, so untouched
// content is re-emitted verbatim. Text is gathered from <w:t> runs the same
// way regardless of how the runs are split.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPath = "word/document.xml"

type blockKind int

const (
	kindOther blockKind = iota
	kindParagraph
	kindTable
)

type part struct {
	name string
	data []byte
}

type rawBlock struct {
	kind blockKind
	lead []byte // inter-element bytes preceding this block, kept for byte-exact reassembly
	raw  []byte
}

// Document is one parsed .docx. Parse a fresh copy from the original bytes for
// every substitution pass; Substitute mutates the instance.
type Document struct {
	parts  []part
	prefix []byte
	blocks []rawBlock
	suffix []byte
}

// Parse reads a .docx byte stream. The bytes must be a zip container holding
// word/document.xml.
func Parse(data []byte) (*Document, error) {
	if !isZip(data) {
		return nil, fmt.Errorf("docx: not a zip container")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: open zip: %w", err)
	}

	doc := &Document{}
	var docXML []byte
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: open part %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("docx: read part %s: %w", f.Name, err)
		}
		doc.parts = append(doc.parts, part{name: f.Name, data: b})
		if f.Name == documentPath {
			docXML = b
		}
	}
	if docXML == nil {
		return nil, fmt.Errorf("docx: missing %s", documentPath)
	}

	if err := doc.splitBody(docXML); err != nil {
		return nil, fmt.Errorf("docx: parse %s: %w", documentPath, err)
	}
	return doc, nil
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// splitBody carves document.xml into prefix / body child blocks / suffix using
// token offsets, so reassembly is byte-identical.
func (d *Document) splitBody(docXML []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(docXML))
	var stack []string
	prevEnd := int64(-1)

	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 2 && stack[0] == "document" && stack[1] == "body" {
				if err := dec.Skip(); err != nil {
					return err
				}
				end := dec.InputOffset()
				if prevEnd < 0 {
					d.prefix = docXML[:start]
					prevEnd = start
				}
				kind := kindOther
				switch t.Name.Local {
				case "p":
					kind = kindParagraph
				case "tbl":
					kind = kindTable
				}
				d.blocks = append(d.blocks, rawBlock{
					kind: kind,
					lead: docXML[prevEnd:start],
					raw:  docXML[start:end],
				})
				prevEnd = end
				continue
			}
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if prevEnd < 0 {
		d.prefix = docXML
		return nil
	}
	d.suffix = docXML[prevEnd:]
	return nil
}

// ParagraphTexts returns the concatenated run text of every body-level
// paragraph, in document order. Table content is not included.
func (d *Document) ParagraphTexts() []string {
	var texts []string
	for _, b := range d.blocks {
		if b.kind == kindParagraph {
			texts = append(texts, collectText(b.raw))
		}
	}
	return texts
}

// CellTexts returns the text of every table cell, flattened in document order.
// Paragraphs within a cell are joined with newlines.
func (d *Document) CellTexts() []string {
	var texts []string
	for _, b := range d.blocks {
		if b.kind != kindTable {
			continue
		}
		spans, err := childSpans(b.raw, "tc")
		if err != nil {
			continue
		}
		for _, sp := range spans {
			texts = append(texts, cellText(b.raw[sp.start:sp.end]))
		}
	}
	return texts
}

// Save serializes the document back to .docx bytes. Parts other than
// word/document.xml round-trip untouched.
func (d *Document) Save() ([]byte, error) {
	var docXML bytes.Buffer
	docXML.Write(d.prefix)
	for _, b := range d.blocks {
		docXML.Write(b.lead)
		docXML.Write(b.raw)
	}
	docXML.Write(d.suffix)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, p := range d.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("docx: write part %s: %w", p.name, err)
		}
		data := p.data
		if p.name == documentPath {
			data = docXML.Bytes()
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("docx: write part %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: close zip: %w", err)
	}
	return out.Bytes(), nil
}

// collectText gathers the chardata of every <w:t> in the fragment, with no
// separators, so literal placeholder tokens survive run splits.
func collectText(raw []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		if err := dec.DecodeElement(&v, &se); err != nil {
			break
		}
		out.WriteString(v)
	}
	return out.String()
}

type span struct {
	start, end int64
}

// childSpans returns the byte spans of every element with the given local name
// in the fragment, skipping occurrences nested inside a matched element.
func childSpans(raw []byte, local string) ([]span, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var spans []span
	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			return spans, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != local {
			continue
		}
		if err := dec.Skip(); err != nil {
			return nil, err
		}
		spans = append(spans, span{start: start, end: dec.InputOffset()})
	}
}

func cellText(cellRaw []byte) string {
	spans, err := childSpans(cellRaw, "p")
	if err != nil {
		return ""
	}
	parts := make([]string, 0, len(spans))
	for _, sp := range spans {
		parts = append(parts, collectText(cellRaw[sp.start:sp.end]))
	}
	return strings.Join(parts, "\n")
}
