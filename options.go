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

// Option configures an Inspector.
type Option func(*Inspector)

// WithPedantic makes undeclared entity references fatal even when the
// document references an external DTD subset (default: false).
func WithPedantic(pedantic bool) Option {
	return func(i *Inspector) {
		i.pedantic = pedantic
	}
}

// WithCharsetDetection enables charset detection for documents that carry
// no encoding declaration and are not valid UTF-8 (default: false, such
// documents are rejected as malformed).
func WithCharsetDetection(detect bool) Option {
	return func(i *Inspector) {
		i.detectCharset = detect
	}
}

// WithMaxSize caps the number of bytes read from the input
// (default: no limit). Values <= 0 remove the cap.
func WithMaxSize(n int64) Option {
	return func(i *Inspector) {
		if n < 0 {
			n = 0
		}
		i.maxSize = n
	}
}
