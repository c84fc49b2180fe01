package docx

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Substitute performs a single literal replacement pass over the document.
// Keys are applied in the given order against each paragraph's concatenated
// text and each table cell's text; a value containing another key's token is
// not substituted again. Any paragraph or cell that contained a key loses its
// run structure and is re-emitted as one plain run — the documented cost of
// whole-text replacement.
func (d *Document) Substitute(keys []string, values map[string]string) {
	for i := range d.blocks {
		b := &d.blocks[i]
		switch b.kind {
		case kindParagraph:
			text := collectText(b.raw)
			if !containsAny(text, keys) {
				continue
			}
			b.raw = rebuildParagraph(b.raw, replaceKeys(text, keys, values))
		case kindTable:
			b.raw = substituteTable(b.raw, keys, values)
		}
	}
}

func containsAny(text string, keys []string) bool {
	for _, k := range keys {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func replaceKeys(text string, keys []string, values map[string]string) string {
	for _, k := range keys {
		if k == "" {
			continue
		}
		text = strings.ReplaceAll(text, k, values[k])
	}
	return text
}

func substituteTable(raw []byte, keys []string, values map[string]string) []byte {
	spans, err := childSpans(raw, "tc")
	if err != nil || len(spans) == 0 {
		return raw
	}

	var out bytes.Buffer
	prev := int64(0)
	changed := false
	for _, sp := range spans {
		cellRaw := raw[sp.start:sp.end]
		text := cellText(cellRaw)
		if !containsAny(text, keys) {
			continue
		}
		out.Write(raw[prev:sp.start])
		out.Write(rebuildCell(cellRaw, replaceKeys(text, keys, values)))
		prev = sp.end
		changed = true
	}
	if !changed {
		return raw
	}
	out.Write(raw[prev:])
	return out.Bytes()
}

// rebuildParagraph keeps the original <w:p> start tag and pPr, then emits the
// substituted text as a single run.
func rebuildParagraph(raw []byte, text string) []byte {
	startTag, name := startTagBytes(raw)
	var out bytes.Buffer
	out.Write(startTag)
	out.Write(firstChildRaw(raw, "pPr"))
	out.WriteString(`<w:r><w:t xml:space="preserve">`)
	_ = xml.EscapeText(&out, []byte(text))
	out.WriteString(`</w:t></w:r></`)
	out.WriteString(name)
	out.WriteString(">")
	return out.Bytes()
}

// rebuildCell keeps the original <w:tc> start tag and tcPr, then emits the
// substituted text as one plain paragraph.
func rebuildCell(raw []byte, text string) []byte {
	startTag, name := startTagBytes(raw)
	var out bytes.Buffer
	out.Write(startTag)
	out.Write(firstChildRaw(raw, "tcPr"))
	out.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	_ = xml.EscapeText(&out, []byte(text))
	out.WriteString(`</w:t></w:r></w:p></`)
	out.WriteString(name)
	out.WriteString(">")
	return out.Bytes()
}

// startTagBytes returns the element's opening tag bytes (self-closing form
// normalized to an open tag) and its qualified name.
func startTagBytes(raw []byte) ([]byte, string) {
	idx := bytes.IndexByte(raw, '>')
	if idx < 0 {
		return raw, ""
	}
	tag := raw[:idx+1]
	if idx > 0 && raw[idx-1] == '/' {
		tag = append(append([]byte{}, raw[:idx-1]...), '>')
	}

	nameEnd := len(tag) - 1
	for i := 1; i < len(tag); i++ {
		if tag[i] == ' ' || tag[i] == '>' || tag[i] == '\t' || tag[i] == '\n' || tag[i] == '\r' {
			nameEnd = i
			break
		}
	}
	return tag, string(tag[1:nameEnd])
}

func firstChildRaw(raw []byte, local string) []byte {
	spans, err := childSpans(raw, local)
	if err != nil || len(spans) == 0 {
		return nil
	}
	return raw[spans[0].start:spans[0].end]
}
