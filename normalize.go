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
	"regexp"
	"strings"
)

var reLabelSeparators = regexp.MustCompile(`[-_ \t]+`)

// normalizeLabel folds an encoding label for table lookup:
// "ISO-8859-1", "iso_8859_1" and "ISO 8859 1" all become "iso88591".
func normalizeLabel(label string) string {
	return strings.ToLower(reLabelSeparators.ReplaceAllString(strings.TrimSpace(label), ""))
}
