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

// repairJSON fixes the formatting slips classifier models make most often:
// keys missing their opening quote and trailing commas before a closing
// bracket. Text inside string literals is never touched.
func repairJSON(s string) string {
	return dropTrailingCommas(quoteBareKeys(s))
}

// quoteBareKeys restores a missing opening quote on object keys.
// Example: `{statement_type": "FACT"` -> `{"statement_type": "FACT"`
func quoteBareKeys(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	for i := 0; i < len(in); {
		ch := in[i]
		out = append(out, ch)
		i++
		if ch == '"' {
			i = copyString(in, i, &out)
			continue
		}
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && isSpace(in[i]) {
			out = append(out, in[i])
			i++
		}
		if i >= len(in) || !isLetter(in[i]) {
			continue
		}

		start := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			out = append(out, '"')
			out = append(out, in[start:i]...)
			out = append(out, '"', ':')
			i += 2
			continue
		}
		out = append(out, in[start:i]...)
	}
	return string(out)
}

// dropTrailingCommas removes a comma followed only by whitespace and a
// closing bracket or brace.
func dropTrailingCommas(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in))

	for i := 0; i < len(in); {
		ch := in[i]
		if ch == '"' {
			out = append(out, ch)
			i = copyString(in, i+1, &out)
			continue
		}
		if ch == ',' {
			j := i + 1
			for j < len(in) && isSpace(in[j]) {
				j++
			}
			if j < len(in) && (in[j] == ']' || in[j] == '}') {
				i++
				continue
			}
		}
		out = append(out, ch)
		i++
	}
	return string(out)
}

// copyString appends a string literal body starting at i (just past the
// opening quote) through its closing quote, and returns the index after it.
func copyString(in []rune, i int, out *[]rune) int {
	for i < len(in) {
		ch := in[i]
		*out = append(*out, ch)
		i++
		switch ch {
		case '\\':
			if i < len(in) {
				*out = append(*out, in[i])
				i++
			}
		case '"':
			return i
		}
	}
	return i
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
