package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quinncodes/orgspace/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Acme", "acme"},
		{"spaces become hyphens", "Acme Corp", "acme-corp"},
		{"special characters collapse", "Acme & Sons, Inc.", "acme-sons-inc"},
		{"leading and trailing junk trimmed", "  --Acme--  ", "acme"},
		{"digits preserved", "Studio 54", "studio-54"},
		{"empty input", "", ""},
		{"only special characters", "!!!", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, slug.Make(tt.in))
		})
	}

	t.Run("long names truncate without trailing hyphen", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("ab ", 40)
		got := slug.Make(long)
		assert.LessOrEqual(t, len(got), slug.MaxLength)
		assert.False(t, strings.HasSuffix(got, "-"))
		assert.True(t, slug.IsValid(got))
	})
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	valid := []string{"acme", "acme-corp", "a", "42", "a-1-b-2"}
	for _, s := range valid {
		assert.True(t, slug.IsValid(s), s)
	}

	invalid := []string{"", "Acme", "acme_corp", "acme corp", "acme!", strings.Repeat("a", slug.MaxLength+1)}
	for _, s := range invalid {
		assert.False(t, slug.IsValid(s), s)
	}
}
