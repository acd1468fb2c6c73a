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

// Package xmldecl parses the two prolog constructs encoding/xml hands back
// as raw bytes: the XML declaration and the DOCTYPE directive.
package xmldecl

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Decl is a parsed XML declaration.
type Decl struct {
	Version    string
	Encoding   *string
	Standalone *string
}

// Doctype is a parsed document type declaration.
type Doctype struct {
	Name     string
	PublicID *string
	SystemID *string

	// Entities holds the general internal entities declared in the
	// internal subset. The first declaration of a name wins.
	Entities map[string]string
	// ExternalEntities lists general entities declared with an external ID.
	ExternalEntities []string
}

// HasExternalSubset reports whether the DOCTYPE references an external subset.
func (d *Doctype) HasExternalSubset() bool {
	return d.SystemID != nil
}

var (
	ErrMissingVersion = errors.New("XML declaration without version")
	ErrUnterminated   = errors.New("unterminated declaration")
)

// ParseDecl parses the content of an <?xml ...?> processing instruction,
// without the target and the closing "?>".
func ParseDecl(inst []byte) (Decl, error) {
	var d Decl
	s := &scanner{b: inst}
	s.skipSpace()

	name, value, err := s.pseudoAttr()
	if err != nil {
		return d, err
	}
	if name != "version" {
		return d, ErrMissingVersion
	}
	if !validVersion(value) {
		return d, fmt.Errorf("invalid XML version %q", value)
	}
	d.Version = value

	for {
		hadSpace := s.skipSpace()
		if s.eof() {
			return d, nil
		}
		if !hadSpace {
			return d, fmt.Errorf("expected whitespace at offset %d", s.pos)
		}
		name, value, err = s.pseudoAttr()
		if err != nil {
			return d, err
		}
		switch {
		case name == "encoding" && d.Encoding == nil && d.Standalone == nil:
			if !validEncName(value) {
				return d, fmt.Errorf("invalid encoding name %q", value)
			}
			d.Encoding = &value
		case name == "standalone" && d.Standalone == nil:
			if value != "yes" && value != "no" {
				return d, fmt.Errorf("standalone must be yes or no, got %q", value)
			}
			d.Standalone = &value
		default:
			return d, fmt.Errorf("unexpected %q in XML declaration", name)
		}
	}
}

// ParseDoctype parses the content of a directive as returned by
// encoding/xml (everything between "<!" and the closing ">"). The boolean
// result is false when the directive is not a DOCTYPE at all.
func ParseDoctype(dir []byte) (Doctype, bool, error) {
	var d Doctype
	if !bytes.HasPrefix(dir, []byte("DOCTYPE")) {
		return d, false, nil
	}
	s := &scanner{b: dir, pos: len("DOCTYPE")}
	if !s.skipSpace() {
		return d, true, errors.New("expected whitespace after DOCTYPE")
	}
	d.Name = s.name()
	if d.Name == "" {
		return d, true, errors.New("DOCTYPE without a name")
	}

	s.skipSpace()
	pub, sys, err := s.externalID()
	if err != nil {
		return d, true, err
	}
	d.PublicID, d.SystemID = pub, sys

	s.skipSpace()
	if s.consume("[") {
		if err := s.internalSubset(&d); err != nil {
			return d, true, err
		}
		s.skipSpace()
	}
	if !s.eof() {
		return d, true, fmt.Errorf("unexpected %q after DOCTYPE", s.rest())
	}
	return d, true, nil
}

type scanner struct {
	b   []byte
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.b) }

func (s *scanner) rest() []byte { return s.b[s.pos:] }

func (s *scanner) consume(lit string) bool {
	if bytes.HasPrefix(s.rest(), []byte(lit)) {
		s.pos += len(lit)
		return true
	}
	return false
}

func (s *scanner) skipSpace() bool {
	start := s.pos
	for !s.eof() && isSpace(s.b[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

func (s *scanner) name() string {
	start := s.pos
	for !s.eof() {
		c := s.b[s.pos]
		if isSpace(c) || c == '[' || c == ']' || c == '>' || c == '"' || c == '\'' || c == '=' || c == ';' {
			break
		}
		s.pos++
	}
	name := string(s.b[start:s.pos])
	if !ValidName(name) {
		s.pos = start
		return ""
	}
	return name
}

func (s *scanner) quoted() (string, error) {
	if s.eof() {
		return "", ErrUnterminated
	}
	q := s.b[s.pos]
	if q != '"' && q != '\'' {
		return "", fmt.Errorf("expected quoted literal at offset %d", s.pos)
	}
	end := bytes.IndexByte(s.b[s.pos+1:], q)
	if end < 0 {
		return "", ErrUnterminated
	}
	v := string(s.b[s.pos+1 : s.pos+1+end])
	s.pos += end + 2
	return v, nil
}

func (s *scanner) pseudoAttr() (string, string, error) {
	name := s.name()
	if name == "" {
		return "", "", fmt.Errorf("expected pseudo-attribute at offset %d", s.pos)
	}
	s.skipSpace()
	if !s.consume("=") {
		return "", "", fmt.Errorf("expected '=' after %q", name)
	}
	s.skipSpace()
	v, err := s.quoted()
	return name, v, err
}

// externalID parses SYSTEM "sys" or PUBLIC "pub" "sys". It returns two nil
// pointers when neither keyword is present.
func (s *scanner) externalID() (pub, sys *string, err error) {
	switch {
	case s.consume("SYSTEM"):
		if !s.skipSpace() {
			return nil, nil, errors.New("expected whitespace after SYSTEM")
		}
		v, err := s.quoted()
		if err != nil {
			return nil, nil, err
		}
		return nil, &v, nil
	case s.consume("PUBLIC"):
		if !s.skipSpace() {
			return nil, nil, errors.New("expected whitespace after PUBLIC")
		}
		p, err := s.quoted()
		if err != nil {
			return nil, nil, err
		}
		if !validPubid(p) {
			return nil, nil, fmt.Errorf("invalid public identifier %q", p)
		}
		hadSpace := s.skipSpace()
		if s.eof() || (s.b[s.pos] != '"' && s.b[s.pos] != '\'') {
			return nil, nil, errors.New("PUBLIC identifier without system literal")
		}
		if !hadSpace {
			return nil, nil, errors.New("expected whitespace between public and system literals")
		}
		v, err := s.quoted()
		if err != nil {
			return nil, nil, err
		}
		return &p, &v, nil
	}
	return nil, nil, nil
}

func (s *scanner) internalSubset(d *Doctype) error {
	for {
		s.skipSpace()
		switch {
		case s.eof():
			return errors.New("unterminated internal subset")
		case s.consume("]"):
			return nil
		case s.consume("<!--"):
			end := bytes.Index(s.rest(), []byte("-->"))
			if end < 0 {
				return ErrUnterminated
			}
			s.pos += end + 3
		case s.consume("<?"):
			end := bytes.Index(s.rest(), []byte("?>"))
			if end < 0 {
				return ErrUnterminated
			}
			s.pos += end + 2
		case s.consume("<!ENTITY"):
			if err := s.entityDecl(d); err != nil {
				return err
			}
		case s.consume("<!"):
			if err := s.skipMarkupDecl(); err != nil {
				return err
			}
		case s.consume("%"):
			if s.name() == "" || !s.consume(";") {
				return fmt.Errorf("malformed parameter entity reference at offset %d", s.pos)
			}
		default:
			return fmt.Errorf("unexpected %q in internal subset", s.rest())
		}
	}
}

func (s *scanner) entityDecl(d *Doctype) error {
	if !s.skipSpace() {
		return errors.New("expected whitespace after <!ENTITY")
	}
	parameter := false
	if s.consume("%") {
		if !s.skipSpace() {
			return errors.New("expected whitespace after %")
		}
		parameter = true
	}
	name := s.name()
	if name == "" {
		return errors.New("entity declaration without a name")
	}
	if !s.skipSpace() {
		return fmt.Errorf("expected whitespace after entity name %q", name)
	}

	var (
		value    string
		external bool
	)
	if !s.eof() && (s.b[s.pos] == '"' || s.b[s.pos] == '\'') {
		v, err := s.quoted()
		if err != nil {
			return err
		}
		value = v
	} else {
		_, sys, err := s.externalID()
		if err != nil {
			return err
		}
		if sys == nil {
			return fmt.Errorf("entity %q has neither value nor external ID", name)
		}
		external = true
		s.skipSpace()
		if s.consume("NDATA") {
			if !s.skipSpace() || s.name() == "" {
				return fmt.Errorf("malformed NDATA in entity %q", name)
			}
		}
	}
	s.skipSpace()
	if !s.consume(">") {
		return fmt.Errorf("unterminated entity declaration %q", name)
	}
	if parameter {
		return nil
	}

	if _, dup := d.Entities[name]; dup || contains(d.ExternalEntities, name) {
		return nil
	}
	if external {
		d.ExternalEntities = append(d.ExternalEntities, name)
		return nil
	}
	if d.Entities == nil {
		d.Entities = make(map[string]string)
	}
	d.Entities[name] = value
	return nil
}

// skipMarkupDecl skips ELEMENT, ATTLIST and NOTATION declarations.
func (s *scanner) skipMarkupDecl() error {
	var quote byte
	for !s.eof() {
		c := s.b[s.pos]
		s.pos++
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return nil
		}
	}
	return ErrUnterminated
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// validVersion matches VersionNum: '1.' [0-9]+
func validVersion(v string) bool {
	if len(v) < 3 || v[0] != '1' || v[1] != '.' {
		return false
	}
	for i := 2; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

// validEncName matches EncName: [A-Za-z] ([A-Za-z0-9._] | '-')*
func validEncName(v string) bool {
	if v == "" || !isLetter(v[0]) {
		return false
	}
	for i := 1; i < len(v); i++ {
		c := v[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '.' && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

func validPubid(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case isLetter(c), c >= '0' && c <= '9':
		case c == ' ', c == '\r', c == '\n':
		case bytes.IndexByte([]byte("-'()+,./:=?;!*#@$_%"), c) >= 0:
		default:
			return false
		}
	}
	return true
}

// ValidName reports whether v matches the XML Name production.
func ValidName(v string) bool {
	if v == "" {
		return false
	}
	for i, r := range v {
		if r == utf8.RuneError {
			return false
		}
		if !isNameStartChar(r) && (i == 0 || !isNameChar(r)) {
			return false
		}
	}
	return true
}

func isNameStartChar(r rune) bool {
	switch {
	case r == ':', r == '_', r < utf8.RuneSelf && isLetter(byte(r)):
		return true
	case r >= 0xC0 && r <= 0xD6, r >= 0xD8 && r <= 0xF6, r >= 0xF8 && r <= 0x2FF,
		r >= 0x370 && r <= 0x37D, r >= 0x37F && r <= 0x1FFF, r >= 0x200C && r <= 0x200D,
		r >= 0x2070 && r <= 0x218F, r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF,
		r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD, r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

func isNameChar(r rune) bool {
	switch {
	case r == '-', r == '.', r >= '0' && r <= '9', r == 0xB7:
		return true
	case r >= 0x300 && r <= 0x36F, r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
