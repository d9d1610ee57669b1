// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"regexp"
	"strings"
)

var (
	// `{topic_id": "x"}`, `{'topic_id': "x"}` and `{topic_id: "x"}`
	looseKey = regexp.MustCompile(`([{,]\s*)['"]?([A-Za-z_][A-Za-z0-9_]*)['"]?(\s*:)`)

	// `{"topic_id": "x",}`
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// repairJSON attempts to fix common JSON formatting issues from LLM responses.
// It keeps only the outermost object and normalizes key quoting.
// Only call it on text that already failed to parse: the patterns can
// rewrite string values that happen to look like keys.
func repairJSON(s string) string {
	s = stripCodeFence(s)

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}

	s = trailingComma.ReplaceAllString(s, "$1")
	return looseKey.ReplaceAllString(s, `$1"$2"$3`)
}
