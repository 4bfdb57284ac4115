package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollisdev/scriptsync/pkg/errors"
)

func TestTransformJS(t *testing.T) {
	minifier := NewMinifier()
	out, err := minifier.Transform("chat.js", `
function greet(playerName) {
    return "hello, " + playerName;
}
greet("world");
`)
	require.NoError(t, err)

	// Whitespace and identifiers are minified away.
	assert.NotContains(t, out, "playerName")
	assert.NotContains(t, out, "\n    ")
	assert.Contains(t, out, "hello, ")
}

func TestTransformTS(t *testing.T) {
	minifier := NewMinifier()
	out, err := minifier.Transform("util.ts", `
const limit: number = 3;
export function clamp(n: number): number {
    return Math.min(n, limit);
}
`)
	require.NoError(t, err)

	// Type annotations are stripped when compiling to JavaScript.
	assert.NotContains(t, out, ": number")
	assert.Contains(t, out, "Math.min")
}

func TestTransformSyntaxError(t *testing.T) {
	minifier := NewMinifier()
	out, err := minifier.Transform("broken.js", "function (")
	assert.Empty(t, out)

	var transformErr errors.TransformError
	require.ErrorAs(t, err, &transformErr)
	assert.Equal(t, "broken.js", transformErr.Name)
	assert.NotEmpty(t, transformErr.Reason)
	assert.True(t, strings.HasPrefix(err.Error(), `transform "broken.js"`),
		err.Error())
}

func TestTransformTSSyntaxInJSFile(t *testing.T) {
	// TypeScript syntax in a .js file is a transform failure, not silently
	// accepted.
	minifier := NewMinifier()
	_, err := minifier.Transform("typed.js", "const n: number = 1;")
	assert.Error(t, err)
}
