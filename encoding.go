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
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// DefaultEncoding is the output encoding used when none is requested.
const DefaultEncoding = "utf8"

// Encoding is a resolved character encoding.
type Encoding struct {
	// Name is the label the encoding was looked up with.
	Name string
	enc  encoding.Encoding
}

// LookupEncoding resolves an encoding label. Labels are matched
// case-insensitively, ignoring '-', '_' and blanks; names outside the
// built-in table are tried as WHATWG labels, then as IANA names.
func LookupEncoding(name string) (*Encoding, error) {
	if enc := builtinEncoding(name); enc != nil {
		return &Encoding{Name: name, enc: enc}, nil
	}
	if name == "" {
		return nil, &UnknownEncodingError{Name: name}
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return &Encoding{Name: name, enc: enc}, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return &Encoding{Name: name, enc: enc}, nil
	}
	return nil, &UnknownEncodingError{Name: name}
}

// builtinEncoding maps the labels xmlinfo has always accepted.
// UTF-16 and UCS-2/UCS-4 without an explicit byte order are little endian
// and written without a BOM.
func builtinEncoding(name string) encoding.Encoding {
	switch normalizeLabel(name) {
	case "utf8":
		return unicode.UTF8
	case "utf16", "utf16le", "ucs2", "iso10646ucs2":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "utf32", "utf32le", "ucs4", "iso10646ucs4":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	case "utf32be":
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	case "iso88591", "isolatin1", "latin1":
		return charmap.ISO8859_1
	case "iso88592", "isolatin2", "latin2":
		return charmap.ISO8859_2
	case "iso88593":
		return charmap.ISO8859_3
	case "iso88594":
		return charmap.ISO8859_4
	case "iso88595":
		return charmap.ISO8859_5
	case "iso88596":
		return charmap.ISO8859_6
	case "iso88597":
		return charmap.ISO8859_7
	case "iso88598":
		return charmap.ISO8859_8
	case "iso88599":
		return charmap.ISO8859_9
	case "iso885910":
		return charmap.ISO8859_10
	case "iso885913":
		return charmap.ISO8859_13
	case "iso885914":
		return charmap.ISO8859_14
	case "iso885915":
		return charmap.ISO8859_15
	case "iso885916":
		return charmap.ISO8859_16
	case "windows1250", "cp1250":
		return charmap.Windows1250
	case "windows1251", "cp1251":
		return charmap.Windows1251
	case "windows1252", "cp1252":
		return charmap.Windows1252
	case "windows1253", "cp1253":
		return charmap.Windows1253
	case "windows1254", "cp1254":
		return charmap.Windows1254
	case "windows1255", "cp1255":
		return charmap.Windows1255
	case "windows1256", "cp1256":
		return charmap.Windows1256
	case "koi8r":
		return charmap.KOI8R
	case "koi8u":
		return charmap.KOI8U
	case "shiftjis", "sjis", "cp932", "windows31j":
		return japanese.ShiftJIS
	case "eucjp":
		return japanese.EUCJP
	case "iso2022jp":
		return japanese.ISO2022JP
	case "euckr", "cp949":
		return korean.EUCKR
	case "gb2312", "gbk", "cp936":
		return simplifiedchinese.GBK
	case "gb18030":
		return simplifiedchinese.GB18030
	case "big5", "cp950":
		return traditionalchinese.Big5
	}
	return nil
}

// decodeWithDetection guesses the charset of data and decodes it to UTF-8.
// It reports false when no detected charset could decode the input.
func decodeWithDetection(data []byte) ([]byte, string, bool) {
	results, err := chardet.NewTextDetector().DetectAll(data)
	if err != nil {
		return nil, "", false
	}
	// Results come sorted by confidence; take the first one that decodes.
	for _, r := range results {
		enc := builtinEncoding(r.Charset)
		if enc == nil || enc == unicode.UTF8 {
			continue
		}
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil || !utf8.Valid(decoded) {
			continue
		}
		return decoded, r.Charset, true
	}
	return nil, "", false
}
