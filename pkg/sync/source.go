package sync

import (
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/hollisdev/scriptsync/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// SupportedExtensions are the source extensions the engine recognizes as
// scripts. Everything else in the source tree is ignored.
var SupportedExtensions = []string{".js", ".ts"}

// GlobalOwner is the owner of scripts at the root of the source tree.
const GlobalOwner = ""

// A Source is a script source file. Owner is the user id derived from the
// containing subdirectory, or GlobalOwner for scripts directly under the
// source root. Name is the logical name: the file name without its
// extension.
type Source struct {
	Owner string
	Name  string
	Path  string
}

// IsGlobal returns whether the script is deployable to any non-overriding
// user, rather than to a single owner.
func (s Source) IsGlobal() bool {
	return s.Owner == GlobalOwner
}

// A SkipMap maps a logical name to the set of users holding a private
// override of that name. A global script must never be deployed to a user in
// its SkipMap entry.
type SkipMap map[string]map[string]bool

func (m SkipMap) add(name, user string) {
	if m[name] == nil {
		m[name] = map[string]bool{}
	}
	m[name][user] = true
}

// Skips returns whether the given user holds a private override for the
// given logical name.
func (m SkipMap) Skips(name, user string) bool {
	return m[name][user]
}

func isScript(path string) bool {
	ext := filepath.Ext(path)
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func logicalName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// scanSources enumerates the source tree. Top-level directories are user
// directories whose scripts are private overrides; top-level script files
// are global candidates. The returned SkipMap is complete: callers may rely
// on it for global deployment decisions without further scanning.
// A user directory that can't be read only loses its own contribution.
func scanSources(root string) (globals, privates []Source, skip SkipMap, err error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, nil, nil, errors.WithContext(err, "read source root")
	}

	skip = SkipMap{}
	for _, entry := range entries {
		if !entry.IsDir() {
			if isScript(entry.Name()) {
				globals = append(globals, Source{
					Owner: GlobalOwner,
					Name:  logicalName(entry.Name()),
					Path:  filepath.Join(root, entry.Name()),
				})
			}
			continue
		}

		user := entry.Name()
		files, err := afero.ReadDir(fs, filepath.Join(root, user))
		if err != nil {
			log.WithError(err).WithField("user", user).Warn(
				"Failed to scan user directory. Skipping its scripts.")
			continue
		}

		for _, f := range files {
			if f.IsDir() || !isScript(f.Name()) {
				continue
			}

			name := logicalName(f.Name())
			skip.add(name, user)
			privates = append(privates, Source{
				Owner: user,
				Name:  name,
				Path:  filepath.Join(root, user, f.Name()),
			})
		}
	}
	return globals, privates, skip, nil
}
