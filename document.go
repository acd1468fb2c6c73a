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

// StreamInfo holds metadata about the input being inspected.
type StreamInfo struct {
	Filename  string
	LocalPath string
}

func (info StreamInfo) source() string {
	if info.LocalPath != "" {
		return info.LocalPath
	}
	return info.Filename
}

// Document holds the declared metadata of a parsed XML document.
// A nil field was not present in the source.
type Document struct {
	Version    *string
	Encoding   *string
	Standalone *string
	DTD        *DTD
}

// DTD holds the document type declaration of a document.
type DTD struct {
	Name     *string
	PublicID *string
	SystemID *string
}

// Report labels, padded to a common width.
const (
	LabelVersion    = "Version   "
	LabelEncoding   = "Encoding  "
	LabelName       = "Name      "
	LabelIdentifier = "Identifier"
	LabelURI        = "URI       "
)

// Field is one labeled line of a report.
type Field struct {
	Label string
	Value string
}

// Report returns the present fields of doc in output order:
// version, encoding, DTD name, public identifier, system identifier.
func Report(doc *Document) []Field {
	if doc == nil {
		return nil
	}
	var fields []Field
	add := func(label string, v *string) {
		if v != nil {
			fields = append(fields, Field{Label: label, Value: *v})
		}
	}
	add(LabelVersion, doc.Version)
	add(LabelEncoding, doc.Encoding)
	if dtd := doc.DTD; dtd != nil {
		add(LabelName, dtd.Name)
		add(LabelIdentifier, dtd.PublicID)
		add(LabelURI, dtd.SystemID)
	}
	return fields
}
