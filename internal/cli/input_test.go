package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple line", "production\n", "production"},
		{"trims spaces", "  hello  \n", "hello"},
		{"partial line before EOF", "no-newline", "no-newline"},
		{"empty line", "\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetSimpleText(bufio.NewReader(strings.NewReader(tt.input)), "Value", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Value")
		})
	}
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	_, err := GetSimpleText(bufio.NewReader(strings.NewReader("")), "Value", &out)
	assert.Error(t, err)
}

func TestGetSecret(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()

	readPassword = func(fd int) ([]byte, error) {
		return []byte("s3cret"), nil
	}

	var out bytes.Buffer
	secret, err := GetSecret("Master secret", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), secret)
	assert.Contains(t, out.String(), "Master secret")
	assert.NotContains(t, out.String(), "s3cret")
}

func TestGetSecret_Error(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()

	readPassword = func(fd int) ([]byte, error) {
		return nil, errors.New("not a terminal")
	}

	var out bytes.Buffer
	_, err := GetSecret("Master secret", &out)
	assert.Error(t, err)
}
