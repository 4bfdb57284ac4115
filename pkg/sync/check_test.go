package sync

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeSource(t, "/src/good.js", "good")
	writeSource(t, "/src/bad.js", "ERROR")
	writeSource(t, "/src/alice/also-good.ts", "fine")
	writeSource(t, "/src/alice/empty.ts", "EMPTY")
	registerUser(t, "alice")

	before := listAllFiles(t)

	syncer := newTestSyncer(nil, nil)
	failures, err := syncer.Check()
	require.NoError(t, err)

	require.Len(t, failures, 2)
	assert.Equal(t, "/src/alice/empty.ts", failures[0].Path)
	assert.Error(t, failures[0].Err)
	assert.Equal(t, "/src/bad.js", failures[1].Path)
	assert.Error(t, failures[1].Err)

	// Check never writes: the filesystem is untouched.
	assert.Equal(t, before, listAllFiles(t))
}

func TestCheckAllValid(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeSource(t, "/src/good.js", "good")

	failures, err := newTestSyncer(nil, nil).Check()
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func listAllFiles(t *testing.T) map[string]string {
	files := map[string]string{}
	err := afero.Walk(fs, "/", func(path string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		contents, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		files[path] = string(contents)
		return nil
	})
	require.NoError(t, err)
	return files
}
