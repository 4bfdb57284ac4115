package sync

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/hollisdev/scriptsync/pkg/errors"
	"github.com/hollisdev/scriptsync/pkg/persist"
)

// Pull copies a deployed script back into the source tree. The target has
// the form "user.name", e.g. "alice.chat". The copy lands in the user's
// source directory, so it becomes a private override on the next push.
func (s Syncer) Pull(target string) error {
	user, name, err := splitTarget(target)
	if err != nil {
		return err
	}

	deployed := DeployPath(s.DeployRoot, user, name)
	contents, err := afero.ReadFile(fs, deployed)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileNotFound{Path: deployed}
		}
		return errors.WithContext(err, "read deployed script")
	}

	source := filepath.Join(s.SourceRoot, user, name+DeployedExtension)
	if err := persist.Write(fs, source, contents); err != nil {
		return errors.WithContext(err, "write source")
	}
	return nil
}

func splitTarget(target string) (user, name string, err error) {
	parts := strings.SplitN(target, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.NewFriendlyError(
			"Invalid script %q. Scripts are addressed as user.name, "+
				"e.g. alice.chat.", target)
	}
	return parts[0], parts[1], nil
}
