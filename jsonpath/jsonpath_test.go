// nolint
package jsonpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPathDeeplyNested = "$['user']['profile']['address']['street']"

func TestParsePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		wantKeys  Path
		wantErr   bool
		errString string
	}{
		{
			name:     "simple path",
			path:     "$['user']",
			wantKeys: Path{"user"},
		},
		{
			name:     "nested path",
			path:     "$['user']['name']",
			wantKeys: Path{"user", "name"},
		},
		{
			name:     "deeply nested path",
			path:     testPathDeeplyNested,
			wantKeys: Path{"user", "profile", "address", "street"},
		},
		{
			name:     "field with dot",
			path:     "$['email.primary']",
			wantKeys: Path{"email.primary"},
		},
		{
			name:     "field with spaces",
			path:     "$['full name']",
			wantKeys: Path{"full name"},
		},
		{
			name:      "empty path",
			path:      "",
			wantErr:   true,
			errString: "path cannot be empty",
		},
		{
			name:      "missing dollar sign",
			path:      "['user']",
			wantErr:   true,
			errString: "path must start with $[",
		},
		{
			name:      "empty segment in middle",
			path:      "$['user']['']['name']",
			wantErr:   true,
			errString: "segment 1",
		},
		{
			name:      "invalid syntax - missing quotes",
			path:      "$[user]",
			wantErr:   true,
			errString: "no valid segments found",
		},
		{
			name:      "invalid syntax - extra characters",
			path:      "$['user']extra",
			wantErr:   true,
			errString: "invalid bracket notation syntax",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			segments, err := ParsePath(testCase.path)

			if testCase.wantErr {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), testCase.errString),
					"error %q should contain %q", err, testCase.errString)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.wantKeys, segments)
		})
	}
}

func TestParseDotted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want Path
	}{
		{key: "alias", want: Path{"alias"}},
		{key: "profile.name", want: Path{"profile", "name"}},
		{key: "a..b", want: Path{"a", "", "b"}},
		{key: ".a", want: Path{"", "a"}},
		{key: "a.", want: Path{"a", ""}},
		{key: "", want: Path{""}},
	}

	for _, testCase := range tests {
		t.Run(testCase.key, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, ParseDotted(testCase.key))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Path{"profile", "name"}, Parse("profile.name"))
	assert.Equal(t, Path{"email.primary", "label"}, Parse("$['email.primary']['label']"))

	// Malformed bracket notation degrades to a dotted key instead of failing.
	assert.Equal(t, Path{"$[broken]"}, Parse("$[broken]"))
}

func TestParseList(t *testing.T) {
	t.Parallel()

	paths := ParseList("alias", "profile.name", "name")
	assert.Equal(t, PathList{{"alias"}, {"profile", "name"}, {"name"}}, paths)
	assert.Equal(t, []string{"alias", "profile.name", "name"}, paths.Strings())

	assert.Empty(t, ParseList())
}

func TestParseDottedList(t *testing.T) {
	t.Parallel()

	paths := ParseDottedList("$['a']", "profile.name", "")
	assert.Equal(t, PathList{{"$['a']"}, {"profile", "name"}, {""}}, paths)

	assert.Equal(t, PathList{{"$['a", "b']"}}, ParseDottedList("$['a.b']"))
	assert.Empty(t, ParseDottedList())
}

func TestPathString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "profile.name", Path{"profile", "name"}.String())
	assert.Equal(t, "$['email.primary']['label']", Path{"email.primary", "label"}.String())
	assert.Equal(t, "a..b", Path{"a", "", "b"}.String())
}

func TestToNestedPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ToNestedPath())
	assert.Equal(t, "$['address']", ToNestedPath("address"))
	assert.Equal(t, "$['user']['profile']['email']", ToNestedPath("user", "profile", "email"))
}

func TestIsNestedPath(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNestedPath("$['a']"))
	assert.False(t, IsNestedPath("a.b"))
	assert.False(t, IsNestedPath("$a"))
}
