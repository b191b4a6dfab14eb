package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{name: "true becomes bool", raw: "true", want: true},
		{name: "false becomes bool", raw: "false", want: false},
		{name: "integer", raw: "42", want: int64(42)},
		{name: "negative integer", raw: "-7", want: int64(-7)},
		{name: "float", raw: "0.35", want: 0.35},
		{name: "plain string", raw: "ollama", want: "ollama"},
		{name: "url stays string", raw: "http://localhost:11434", want: "http://localhost:11434"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceValue(tt.raw))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "****", maskAPIKey(""))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
