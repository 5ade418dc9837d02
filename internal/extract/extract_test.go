package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com/article",
		"http://example.com",
		"https://example.com/path?query=1&other=2",
	}
	for _, u := range valid {
		assert.True(t, ValidateURL(u), u)
	}

	invalid := []string{
		"",
		"not-a-url",
		"ftp://example.com/file",
		"javascript:alert(1)",
		"https://",
		"/relative/path",
	}
	for _, u := range invalid {
		assert.False(t, ValidateURL(u), u)
	}
}
