// Package transform converts raw script sources into the deployable form
// expected by the scripting host: plain minified JavaScript. The sync engine
// only depends on the Transformer interface, so the compilation pipeline can
// be swapped out without touching the engine.
package transform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/hollisdev/scriptsync/pkg/errors"
)

// Transformer converts a script source into a deployable text blob. The name
// is the source file name, and is used to pick the language and to report
// errors. Implementations must be pure: no filesystem access, no state
// between calls.
type Transformer interface {
	Transform(name, source string) (string, error)
}

// Minifier compiles TypeScript to JavaScript and minifies the result using
// esbuild's in-process API.
type Minifier struct {
	// Target is the JavaScript language level of the output. The zero value
	// is esbuild's default (esnext).
	Target api.Target
}

// NewMinifier returns a Minifier targeting the scripting host's runtime.
func NewMinifier() Minifier {
	return Minifier{Target: api.ES2017}
}

// Transform implements Transformer.
func (m Minifier) Transform(name, source string) (string, error) {
	loader := api.LoaderJS
	if filepath.Ext(name) == ".ts" {
		loader = api.LoaderTS
	}

	result := api.Transform(source, api.TransformOptions{
		Loader:            loader,
		Target:            m.Target,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return "", errors.TransformError{
			Name:   name,
			Reason: formatMessages(result.Errors),
		}
	}

	return string(result.Code), nil
}

func formatMessages(msgs []api.Message) string {
	var texts []string
	for _, msg := range msgs {
		text := msg.Text
		if msg.Location != nil {
			text = fmt.Sprintf("%s (line %d)", text, msg.Location.Line)
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "; ")
}
