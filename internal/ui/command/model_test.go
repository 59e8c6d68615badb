package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		line, verb, arg string
	}{
		{"quit", "quit", ""},
		{"  Export  ", "export", ""},
		{"export /tmp/backup.json", "export", "/tmp/backup.json"},
		{"import   my file.json ", "import", "my file.json"},
		{"filter onboarding-amazon", "filter", "onboarding-amazon"},
		{"", "", ""},
	}

	for _, tt := range tests {
		verb, arg := Split(tt.line)
		assert.Equal(t, tt.verb, verb, tt.line)
		assert.Equal(t, tt.arg, arg, tt.line)
	}
}
