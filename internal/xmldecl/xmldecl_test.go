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

package xmldecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecl(t *testing.T) {
	tests := []struct {
		name       string
		inst       string
		version    string
		encoding   string
		standalone string
	}{
		{"version only", `version="1.0"`, "1.0", "", ""},
		{"single quotes", `version='1.0' encoding='ISO-8859-1'`, "1.0", "ISO-8859-1", ""},
		{"all three", `version="1.0" encoding="UTF-8" standalone="yes"`, "1.0", "UTF-8", "yes"},
		{"standalone without encoding", `version="1.1" standalone='no'`, "1.1", "", "no"},
		{"spaces around equals", `version = "1.0"  encoding = "utf-16" `, "1.0", "utf-16", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDecl([]byte(tt.inst))
			require.NoError(t, err)
			assert.Equal(t, tt.version, d.Version)
			if tt.encoding == "" {
				assert.Nil(t, d.Encoding)
			} else {
				require.NotNil(t, d.Encoding)
				assert.Equal(t, tt.encoding, *d.Encoding)
			}
			if tt.standalone == "" {
				assert.Nil(t, d.Standalone)
			} else {
				require.NotNil(t, d.Standalone)
				assert.Equal(t, tt.standalone, *d.Standalone)
			}
		})
	}
}

func TestParseDeclErrors(t *testing.T) {
	tests := []struct {
		name string
		inst string
	}{
		{"empty", ``},
		{"encoding first", `encoding="UTF-8" version="1.0"`},
		{"bad version", `version="2.0"`},
		{"unterminated", `version="1.0`},
		{"no space between", `version="1.0"encoding="UTF-8"`},
		{"standalone before encoding", `version="1.0" standalone="yes" encoding="UTF-8"`},
		{"standalone value", `version="1.0" standalone="maybe"`},
		{"unknown attribute", `version="1.0" foo="bar"`},
		{"bad encoding name", `version="1.0" encoding="8bit"`},
		{"missing equals", `version "1.0"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecl([]byte(tt.inst))
			assert.Error(t, err)
		})
	}
}

func TestParseDoctype(t *testing.T) {
	t.Run("public", func(t *testing.T) {
		d, ok, err := ParseDoctype([]byte(`DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd"`))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "html", d.Name)
		require.NotNil(t, d.PublicID)
		require.NotNil(t, d.SystemID)
		assert.Equal(t, "-//W3C//DTD HTML 4.01//EN", *d.PublicID)
		assert.Equal(t, "http://www.w3.org/TR/html4/strict.dtd", *d.SystemID)
		assert.True(t, d.HasExternalSubset())
	})

	t.Run("system", func(t *testing.T) {
		d, ok, err := ParseDoctype([]byte(`DOCTYPE doc SYSTEM 'doc.dtd'`))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "doc", d.Name)
		assert.Nil(t, d.PublicID)
		require.NotNil(t, d.SystemID)
		assert.Equal(t, "doc.dtd", *d.SystemID)
	})

	t.Run("name only", func(t *testing.T) {
		d, ok, err := ParseDoctype([]byte(`DOCTYPE a`))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "a", d.Name)
		assert.Nil(t, d.PublicID)
		assert.Nil(t, d.SystemID)
		assert.False(t, d.HasExternalSubset())
	})

	t.Run("internal subset", func(t *testing.T) {
		dir := `DOCTYPE note [
  <!-- a comment with ] and > inside -->
  <!ELEMENT note (#PCDATA)>
  <!ATTLIST note lang CDATA "en>">
  <!ENTITY who "World">
  <!ENTITY who "ignored">
  <!ENTITY % param "x">
  %param;
  <!ENTITY logo SYSTEM "logo.png" NDATA png>
  <!NOTATION png PUBLIC "image/png">
  <?pi data?>
]`
		d, ok, err := ParseDoctype([]byte(dir))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "note", d.Name)
		assert.Equal(t, map[string]string{"who": "World"}, d.Entities)
		assert.Equal(t, []string{"logo"}, d.ExternalEntities)
	})

	t.Run("non-ASCII name", func(t *testing.T) {
		d, ok, err := ParseDoctype([]byte(`DOCTYPE réseau [<!ENTITY _n·2 "v">]`))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "réseau", d.Name)
		assert.Equal(t, map[string]string{"_n·2": "v"}, d.Entities)
	})

	t.Run("not a doctype", func(t *testing.T) {
		_, ok, err := ParseDoctype([]byte(`ELEMENT a ANY`))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestParseDoctypeErrors(t *testing.T) {
	tests := []string{
		`DOCTYPE`,
		`DOCTYPEhtml`,
		`DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN"`,
		`DOCTYPE html SYSTEM`,
		`DOCTYPE html SYSTEM "unterminated`,
		`DOCTYPE html [ <!ENTITY x "y">`,
		`DOCTYPE html [ junk ]`,
		`DOCTYPE html trailing`,
		`DOCTYPE html PUBLIC "bad{pubid}" "x.dtd"`,
		`DOCTYPE 1bad`,
		`DOCTYPE -html`,
		`DOCTYPE a [ <!ENTITY 9x "v"> ]`,
		`DOCTYPE a [ %1p; ]`,
	}

	for _, dir := range tests {
		t.Run(dir, func(t *testing.T) {
			_, ok, err := ParseDoctype([]byte(dir))
			assert.True(t, ok)
			assert.Error(t, err)
		})
	}
}

func TestValidName(t *testing.T) {
	for _, v := range []string{"a", "html", "_x", ":a", "a-b.c", "x1", "réseau", "日本"} {
		assert.True(t, ValidName(v), v)
	}
	for _, v := range []string{"", "1a", "-a", ".a", "a b", "a{b", "\xff"} {
		assert.False(t, ValidName(v), v)
	}
}
