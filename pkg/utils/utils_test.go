package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "react-best-practices", GenerateSlug("React Best Practices"))
	assert.Equal(t, "nextjs-14-app-router", GenerateSlug("Next.js 14 App Router"))
	assert.Equal(t, "rust-clippy-guide", GenerateSlug("  Rust   Clippy  Guide "))
	assert.Equal(t, "", GenerateSlug("!!!"))
}

func TestValidRuleFileName(t *testing.T) {
	valid := []string{"react.mdc", "next-js.mdc", "my_rule.v2.mdc"}
	for _, name := range valid {
		assert.True(t, ValidRuleFileName(name), name)
	}

	invalid := []string{
		"react.txt",
		"rules/react.mdc",
		"../escape.mdc",
		"..mdc",
		"react mdc.mdc",
		"",
		".mdc.backup",
	}
	for _, name := range invalid {
		assert.False(t, ValidRuleFileName(name), name)
	}
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, "%react%", SanitizeSearchQuery(" react "))
	assert.Equal(t, "%100\\%%", SanitizeSearchQuery("100%"))
	assert.Equal(t, "%snake\\_case%", SanitizeSearchQuery("snake_case"))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("demo_user"))
	assert.True(t, ValidateUsername("abc"))
	assert.False(t, ValidateUsername("ab"))
	assert.False(t, ValidateUsername("has space"))
	assert.False(t, ValidateUsername("has@symbol"))
}
