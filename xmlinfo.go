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

// Package xmlinfo reports the declared metadata of XML documents: the
// version and encoding of the XML declaration and the name, public
// identifier and system identifier of the document type declaration.
package xmlinfo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Inspector parses XML documents and extracts their declared metadata.
// Its configuration is fixed at construction, so an Inspector may be
// shared between goroutines.
type Inspector struct {
	pedantic      bool
	detectCharset bool
	maxSize       int64 // 0 means no limit
}

// New creates a new Inspector with the given options.
func New(opts ...Option) *Inspector {
	i := &Inspector{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InspectFile opens path once and inspects its content.
func (i *Inspector) InspectFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	return i.InspectReader(f, StreamInfo{
		Filename:  filepath.Base(path),
		LocalPath: path,
	})
}

// InspectReader reads a whole document from r and inspects it.
func (i *Inspector) InspectReader(r io.Reader, info StreamInfo) (*Document, error) {
	if i.maxSize > 0 {
		r = io.LimitReader(r, i.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &MalformedError{Source: info.source(), Err: fmt.Errorf("read input: %w", err)}
	}
	if i.maxSize > 0 && int64(len(data)) > i.maxSize {
		return nil, &MalformedError{Source: info.source(), Err: ErrTooLarge}
	}

	doc, err := i.parse(data)
	if err != nil {
		return nil, &MalformedError{
			Source:   info.source(),
			MIMEType: detectMIMEType(data),
			Err:      err,
		}
	}
	return doc, nil
}

// detectMIMEType sniffs the content type of data for diagnostics.
func detectMIMEType(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return mimetype.Detect(data).String()
}
