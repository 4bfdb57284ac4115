// Package persist writes deployment artifacts to disk, creating missing
// parent directories on demand. Deployment directories are created lazily
// because users can appear at any time (their key file is the only
// registration), so the target tree can't be pre-created.
package persist

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/hollisdev/scriptsync/pkg/errors"
)

// Mocked out for unit testing.
var writeFile = afero.WriteFile

// Write writes the payload to the given path. If the write fails because a
// parent directory is missing, the missing directories are created and the
// write is retried exactly once. Any other failure, or a second failure
// after the directories were created, is returned to the caller.
func Write(fs afero.Fs, path string, data []byte) error {
	err := writeFile(fs, path, data, 0644)
	if err == nil || !os.IsNotExist(err) {
		return err
	}

	// Two concurrent writers can race on creating the same parent. MkdirAll
	// treats existing directories as success, so the race is benign.
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithContext(err, "make parent")
	}

	if err := writeFile(fs, path, data, 0644); err != nil {
		return errors.WithContext(err, "write after make parent")
	}
	return nil
}
