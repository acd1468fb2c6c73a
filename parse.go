// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package xmlinfo

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"

	"github.com/nicholasgasior/xmlinfo-go/internal/xmldecl"
)

var (
	reEntityRef = regexp.MustCompile(`&([^\s&;#<>"'%]+);`)

	predefinedEntity = map[string]bool{"lt": true, "gt": true, "amp": true, "apos": true, "quot": true}

	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}

	// "<?" in UTF-16 without a byte order mark.
	startUTF16BE = []byte{0x00, '<', 0x00, '?'}
	startUTF16LE = []byte{'<', 0x00, '?', 0x00}
)

// parse checks data for well-formedness and collects its declarations.
func (i *Inspector) parse(data []byte) (*Document, error) {
	src, transcoded, err := i.prepare(data)
	if err != nil {
		return nil, err
	}
	src, version := rewriteVersion(src)

	dec := xml.NewDecoder(bytes.NewReader(src))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		// Already UTF-8: the declared label described the original bytes.
		if transcoded {
			return input, nil
		}
		return charset.NewReaderLabel(label, input)
	}

	p := &docParser{dec: dec, src: src, version: version, pedantic: i.pedantic}
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := p.handle(tok, offset); err != nil {
			return nil, err
		}
	}
	return p.finish()
}

// prepare turns data into something encoding/xml can read: a leading UTF-8
// BOM is dropped and UTF-16 input is transcoded to UTF-8. The boolean result
// reports whether data was transcoded.
func (i *Inspector) prepare(data []byte) ([]byte, bool, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], false, nil
	case bytes.HasPrefix(data, bomUTF16BE), bytes.HasPrefix(data, bomUTF16LE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return nil, false, fmt.Errorf("decode UTF-16: %w", err)
		}
		return out, true, nil
	case bytes.HasPrefix(data, startUTF16BE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
		if err != nil {
			return nil, false, fmt.Errorf("decode UTF-16BE: %w", err)
		}
		return out, true, nil
	case bytes.HasPrefix(data, startUTF16LE):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
		if err != nil {
			return nil, false, fmt.Errorf("decode UTF-16LE: %w", err)
		}
		return out, true, nil
	}

	if i.detectCharset && !utf8.Valid(data) && !declaresEncoding(data) {
		if out, _, ok := decodeWithDetection(data); ok {
			return out, true, nil
		}
	}
	return data, false, nil
}

// leadingDecl parses the XML declaration data starts with. end is the
// offset of its closing "?>".
func leadingDecl(data []byte) (decl xmldecl.Decl, end int, ok bool) {
	if len(data) < 6 || !bytes.HasPrefix(data, []byte("<?xml")) || !isXMLSpace(data[5]) {
		return decl, 0, false
	}
	end = bytes.Index(data, []byte("?>"))
	if end < 0 {
		return decl, 0, false
	}
	decl, err := xmldecl.ParseDecl(data[len("<?xml"):end])
	return decl, end, err == nil
}

// declaresEncoding reports whether data starts with an XML declaration
// carrying an encoding pseudo-attribute.
func declaresEncoding(data []byte) bool {
	decl, _, ok := leadingDecl(data)
	return ok && decl.Encoding != nil
}

// rewriteVersion replaces a declared 1.x version other than 1.0 with 1.0,
// the only version encoding/xml accepts, and returns the declared version.
// Byte offsets are unchanged: the literal is padded with blanks after its
// closing quote.
func rewriteVersion(src []byte) ([]byte, string) {
	decl, end, ok := leadingDecl(src)
	if !ok || decl.Version == "1.0" {
		return src, ""
	}
	q := bytes.IndexAny(src[:end], `"'`)
	if q < 0 {
		return src, ""
	}
	start := q + 1
	stop := start + len(decl.Version)
	if stop >= end || !bytes.Equal(src[start:stop], []byte(decl.Version)) {
		return src, ""
	}

	out := make([]byte, len(src))
	copy(out, src)
	copy(out[start:], "1.0")
	out[start+3] = src[q]
	for i := start + 4; i <= stop; i++ {
		out[i] = ' '
	}
	return out, decl.Version
}

type docParser struct {
	dec      *xml.Decoder
	src      []byte
	version  string
	pedantic bool

	doc    Document
	depth  int
	roots  int
	tokens int
}

func (p *docParser) handle(tok xml.Token, offset int64) error {
	defer func() { p.tokens++ }()

	switch t := tok.(type) {
	case xml.ProcInst:
		if t.Target != "xml" {
			if strings.EqualFold(t.Target, "xml") {
				return fmt.Errorf("reserved processing instruction target %q", t.Target)
			}
			return nil
		}
		if p.tokens > 0 || offset != 0 {
			return errors.New("XML declaration allowed only at the start of the document")
		}
		decl, err := xmldecl.ParseDecl(t.Inst)
		if err != nil {
			return fmt.Errorf("XML declaration: %w", err)
		}
		if p.version != "" {
			decl.Version = p.version
		}
		p.doc.Version = &decl.Version
		p.doc.Encoding = decl.Encoding
		p.doc.Standalone = decl.Standalone

	case xml.Directive:
		dt, ok, err := xmldecl.ParseDoctype(t)
		if err != nil {
			return fmt.Errorf("DOCTYPE: %w", err)
		}
		switch {
		case !ok || p.depth > 0:
			return fmt.Errorf("unexpected declaration <!%s>", firstWord(t))
		case p.doc.DTD != nil:
			return errors.New("more than one DOCTYPE")
		case p.roots > 0:
			return errors.New("DOCTYPE after the root element")
		}
		p.declare(dt)

	case xml.StartElement:
		if err := uniqueAttrs(t); err != nil {
			return err
		}
		if p.depth == 0 {
			p.roots++
			if p.roots > 1 {
				return errors.New("extra content at the end of the document")
			}
		}
		p.depth++

	case xml.EndElement:
		p.depth--

	case xml.CharData:
		if p.depth == 0 && len(bytes.Trim(t, " \t\r\n")) > 0 {
			return errors.New("character data outside the root element")
		}
	}
	return nil
}

// declare records the DOCTYPE and makes its entities known to the decoder.
func (p *docParser) declare(dt xmldecl.Doctype) {
	name := dt.Name
	p.doc.DTD = &DTD{
		Name:     &name,
		PublicID: dt.PublicID,
		SystemID: dt.SystemID,
	}

	for k, v := range dt.Entities {
		p.dec.Entity[k] = v
	}
	// External entities are never loaded; references expand to nothing.
	for _, k := range dt.ExternalEntities {
		p.dec.Entity[k] = ""
	}
	// The external subset is not fetched either, so its declarations are
	// unknown. HTML entities keep their values, which covers the common
	// XHTML case; any other reference expands to nothing.
	if dt.HasExternalSubset() && !p.pedantic {
		for k, v := range xml.HTMLEntity {
			if _, ok := p.dec.Entity[k]; !ok {
				p.dec.Entity[k] = v
			}
		}
		for _, m := range reEntityRef.FindAllSubmatch(p.src, -1) {
			name := string(m[1])
			if !xmldecl.ValidName(name) || predefinedEntity[name] {
				continue
			}
			if _, ok := p.dec.Entity[name]; !ok {
				p.dec.Entity[name] = ""
			}
		}
	}
}

// uniqueAttrs enforces that no attribute name appears twice in a start tag.
func uniqueAttrs(t xml.StartElement) error {
	for i := 1; i < len(t.Attr); i++ {
		for _, prev := range t.Attr[:i] {
			if prev.Name == t.Attr[i].Name {
				return fmt.Errorf("attribute %s redefined in <%s>", qualified(t.Attr[i].Name), qualified(t.Name))
			}
		}
	}
	return nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func (p *docParser) finish() (*Document, error) {
	if p.roots == 0 {
		return nil, errors.New("document is empty")
	}
	doc := p.doc
	return &doc, nil
}

func firstWord(b []byte) string {
	if i := bytes.IndexAny(b, " \t\r\n"); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func isXMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
