// Package docpkg treats the source agreement as an opaque document package
// with exactly two capabilities: extracting its text and substituting marker
// values in place. The concrete format is a WordprocessingML zip; everything
// except the main document part passes through untouched.
package docpkg

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	// ErrCorruptPackage reports a package whose internal text representation
	// cannot be located. Fatal for the current request only.
	ErrCorruptPackage = errors.New("corrupt or unreadable document package")
	// ErrRenderMismatch reports a substitution whose marker could not be
	// found between the expected square-bracket delimiters.
	ErrRenderMismatch = errors.New("marker not found in document package")
)

const documentPart = "word/document.xml"

// markerSpanRe matches a square-bracket marker inside the raw markup,
// allowing interleaved element tags: authoring tools routinely split one
// marker across several runs, so `[COMPANY` and `_NAME]` can sit in
// different <w:t> elements.
var (
	markerSpanRe = regexp.MustCompile(`\[((?:[^<>\[\]]|<[^>]*>)*)\]`)
	innerTagRe   = regexp.MustCompile(`<[^>]*>`)
)

var valueEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Package is a parsed document package. The original bytes are retained so
// substitution can copy every untouched entry verbatim.
type Package struct {
	reader   *zip.Reader
	document string
}

// Open parses package bytes and locates the text part.
func Open(data []byte) (*Package, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPackage, err)
	}
	var document string
	found := false
	for _, f := range reader.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrCorruptPackage, documentPart, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrCorruptPackage, documentPart, err)
		}
		document = string(raw)
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("%w: missing %s", ErrCorruptPackage, documentPart)
	}
	return &Package{reader: reader, document: document}, nil
}

// Text extracts the plain document text: the concatenated content of text
// elements, one line per paragraph. This is the input to field detection.
func (p *Package) Text() (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(p.document))
	var (
		sb    strings.Builder
		stack []string
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parse %s: %v", ErrCorruptPackage, documentPart, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local == "p" {
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if len(stack) > 0 && stack[len(stack)-1] == "t" {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// Substitute replaces each `[literal]` marker whose literal content appears
// in values and repacks the container. Keys are the literal authored marker
// text, never the normalized field name: the raw markup was generated from
// what the author typed. Markers without a key and every non-document entry
// pass through byte-for-byte. A key that matches no marker fails with
// ErrRenderMismatch.
func (p *Package) Substitute(values map[string]string) ([]byte, error) {
	if len(values) == 0 {
		return p.repack(p.document)
	}

	matched := make(map[string]bool, len(values))
	document := markerSpanRe.ReplaceAllStringFunc(p.document, func(span string) string {
		interior := span[1 : len(span)-1]
		literal := xmlUnescape(innerTagRe.ReplaceAllString(interior, ""))
		value, ok := values[literal]
		if !ok {
			return span
		}
		matched[literal] = true
		// Interleaved run boundaries inside the span are dropped with it,
		// which merges the marker back into the first run's text element.
		return valueEscaper.Replace(value)
	})

	for literal := range values {
		if !matched[literal] {
			return nil, fmt.Errorf("%w: [%s]", ErrRenderMismatch, literal)
		}
	}
	return p.repack(document)
}

// repack writes a new container: the document part replaced, every other
// entry copied raw so compressed bytes survive unmodified.
func (p *Package) repack(document string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range p.reader.File {
		if f.Name == documentPart {
			entry, err := w.CreateHeader(&zip.FileHeader{Name: documentPart, Method: zip.Deflate})
			if err != nil {
				return nil, fmt.Errorf("write %s: %w", documentPart, err)
			}
			if _, err := entry.Write([]byte(document)); err != nil {
				return nil, fmt.Errorf("write %s: %w", documentPart, err)
			}
			continue
		}
		header := f.FileHeader
		entry, err := w.CreateRaw(&header)
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", f.Name, err)
		}
		rc, err := f.OpenRaw()
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", f.Name, err)
		}
		if _, err := io.Copy(entry, rc); err != nil {
			return nil, fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

var entityReplacer = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

func xmlUnescape(s string) string {
	return entityReplacer.Replace(s)
}
