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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestLookupEncoding(t *testing.T) {
	tests := []string{
		"utf8",
		"UTF-8",
		"utf16",
		"UTF-16BE",
		"ucs2",
		"UCS-4",
		"iso-8859-1",
		"ISO_8859_15",
		"ISO Latin 1",
		"latin1",
		"windows-1252",
		"koi8-r",
		"Shift_JIS",
		"euc-jp",
		"ISO-2022-JP",
		"euc-kr",
		"gb18030",
		"big5",
		// WHATWG and IANA names outside the built-in table.
		"us-ascii",
		"macintosh",
		"IBM437",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			enc, err := LookupEncoding(name)
			require.NoError(t, err)
			require.NotNil(t, enc)
			assert.Equal(t, name, enc.Name)
		})
	}
}

func TestLookupEncodingUnknown(t *testing.T) {
	for _, name := range []string{"", "bogus-9000", "utf-9", "iso-8859-99"} {
		t.Run(name, func(t *testing.T) {
			enc, err := LookupEncoding(name)
			assert.Nil(t, enc)
			require.Error(t, err)
			assert.True(t, IsUnknownEncoding(err))
		})
	}
}

func TestBuiltinEncoding(t *testing.T) {
	assert.Equal(t, charmap.ISO8859_1, builtinEncoding("ISO-8859-1"))
	assert.Equal(t, charmap.ISO8859_1, builtinEncoding("iso_8859_1"))
	assert.Equal(t, unicode.UTF8, builtinEncoding("UTF8"))
	assert.Nil(t, builtinEncoding("ebcdic"))
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ISO-8859-1", "iso88591"},
		{"iso_8859_1", "iso88591"},
		{" ISO 8859 1 ", "iso88591"},
		{"UTF--8", "utf8"},
		{"Shift_JIS", "shiftjis"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeLabel(tt.in))
		})
	}
}
