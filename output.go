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
	"bufio"
	"errors"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var errNilWriter = errors.New("nil writer")

// Output is a buffered writer that transcodes report lines to the target
// encoding. Characters the encoding cannot represent are written as
// numeric character references.
type Output struct {
	buf *bufio.Writer
	enc io.WriteCloser
}

// NewOutput creates an Output over w. A nil enc means UTF-8.
func NewOutput(w io.Writer, enc *Encoding) (*Output, error) {
	if w == nil {
		return nil, &OutputError{Op: "open", Err: errNilWriter}
	}
	e := encoding.Nop
	if enc != nil && enc.enc != nil {
		e = enc.enc
	}
	tw := transform.NewWriter(w, encoding.HTMLEscapeUnsupported(e.NewEncoder()))
	return &Output{
		buf: bufio.NewWriter(tw),
		enc: tw,
	}, nil
}

// WriteLine writes "label: value\n".
func (o *Output) WriteLine(label, value string) error {
	o.buf.WriteString(label)
	o.buf.WriteString(": ")
	o.buf.WriteString(value)
	if err := o.buf.WriteByte('\n'); err != nil {
		return &OutputError{Op: "write", Err: err}
	}
	return nil
}

// Flush pushes buffered lines through the encoder to the underlying writer.
func (o *Output) Flush() error {
	if err := o.buf.Flush(); err != nil {
		return &OutputError{Op: "flush", Err: err}
	}
	return nil
}

// Close flushes the output. The underlying writer is not closed.
func (o *Output) Close() error {
	if err := o.Flush(); err != nil {
		return err
	}
	if err := o.enc.Close(); err != nil {
		return &OutputError{Op: "close", Err: err}
	}
	return nil
}

// Emit writes the report of doc to out. The output is flushed right after
// the URI line; Close flushes whatever precedes it when there is none.
func Emit(out *Output, doc *Document) error {
	for _, f := range Report(doc) {
		if err := out.WriteLine(f.Label, f.Value); err != nil {
			return err
		}
		if f.Label == LabelURI {
			if err := out.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}
