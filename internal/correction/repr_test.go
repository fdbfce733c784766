package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReprString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"coffee", `'coffee'`},
		{"owner's fee", `"owner's fee"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "both"`, `'it\'s "both"'`},
		{"tab\there", `'tab\there'`},
		{"line\nbreak\r", `'line\nbreak\r'`},
		{`back\slash`, `'back\\slash'`},
		{"bell\a", `'bell\x07'`},
		{"café", `'café'`},
		{"nbsp\u00a0", `'nbsp\xa0'`},
		{"zero\u200bwidth", `'zero\u200bwidth'`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, reprString(tt.in))
		})
	}
}

func TestReprValue(t *testing.T) {
	assert.Equal(t, "None", reprValue(nil))
	assert.Equal(t, "True", reprValue(true))
	assert.Equal(t, "False", reprValue(false))
	assert.Equal(t, "42", reprValue(42))
}
