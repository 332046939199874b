package view

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{
			name: "short string untouched",
			in:   "Ramesh Kirana",
			n:    24,
			want: "Ramesh Kirana",
		},
		{
			name: "long ascii name",
			in:   "Sharma Traders and Sons Private Limited",
			n:    24,
			want: "Sharma Traders and So...",
		},
		{
			name: "devanagari name clips on runes",
			in:   "श्री गणेश ट्रेडर्स एंड कंपनी प्राइवेट लिमिटेड",
			n:    24,
			want: "श्री गणेश ट्रेडर्स एं...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clip(tt.in, tt.n)

			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len([]rune(strings.TrimSuffix(got, "..."))), tt.n)
		})
	}
}
