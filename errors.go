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
	"errors"
	"fmt"
	"strings"
)

// ErrTooLarge is wrapped by a MalformedError when the input exceeds the
// configured maximum size.
var ErrTooLarge = errors.New("document exceeds maximum size")

// NotFoundError is returned when the input file cannot be opened.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to open %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// MalformedError is returned when the input is not a well-formed XML
// document or cannot be read.
type MalformedError struct {
	Source string
	// MIMEType is the sniffed content type of the input, if any.
	MIMEType string
	Err      error
}

func (e *MalformedError) Error() string {
	parts := []string{"badly formed document"}
	if e.Source != "" {
		parts = append(parts, fmt.Sprintf("source=%q", e.Source))
	}
	if e.MIMEType != "" {
		parts = append(parts, fmt.Sprintf("mime=%q", e.MIMEType))
	}
	msg := strings.Join(parts, " ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Unwrap() error { return e.Err }

// UnknownEncodingError is returned by LookupEncoding for names it cannot resolve.
type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding: %q", e.Name)
}

// OutputError is returned when the output stream cannot be created or written.
type OutputError struct {
	Op  string
	Err error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Op, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// IsNotFound reports whether the error is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsMalformed reports whether the error is a MalformedError.
func IsMalformed(err error) bool {
	var target *MalformedError
	return errors.As(err, &target)
}

// IsUnknownEncoding reports whether the error is an UnknownEncodingError.
func IsUnknownEncoding(err error) bool {
	var target *UnknownEncodingError
	return errors.As(err, &target)
}

// IsOutput reports whether the error is an OutputError.
func IsOutput(err error) bool {
	var target *OutputError
	return errors.As(err, &target)
}
