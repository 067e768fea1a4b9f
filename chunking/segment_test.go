package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "whitespace only", text: "  \n\t ", want: []string{}},
		{name: "terminators only", text: "...!?", want: []string{}},
		{name: "single sentence without terminator", text: "Revenue grew", want: []string{"Revenue grew"}},
		{
			name: "mixed terminators",
			text: "Revenue grew. Did margins improve? Yes!",
			want: []string{"Revenue grew", "Did margins improve", "Yes"},
		},
		{
			name: "runs of terminators",
			text: "Wow!!! Really?!? Indeed...",
			want: []string{"Wow", "Really", "Indeed"},
		},
		{
			name: "abbreviations split",
			text: "Mr. Smith joined. Margin was 3.5%.",
			want: []string{"Mr", "Smith joined", "Margin was 3", "5%"},
		},
		{
			name: "newlines trimmed",
			text: "First line.\n\nSecond line.\n",
			want: []string{"First line", "Second line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}
