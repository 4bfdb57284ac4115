package sync

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/hollisdev/scriptsync/pkg/errors"
)

const (
	// KeyExtension is the extension of the identity marker files at the
	// deployment root. The presence of `<user>.key` means the user is known
	// to the scripting host.
	KeyExtension = ".key"

	// MacroExtension is the extension of the per-user macro files at the
	// deployment root.
	MacroExtension = ".macros"

	// DeployedExtension is the extension of deployed scripts. The host only
	// executes JavaScript, so TypeScript sources deploy as .js as well.
	DeployedExtension = ".js"

	// ScriptsDir is the directory under each user's deployment directory
	// that holds the deployed scripts.
	ScriptsDir = "scripts"
)

// EffectiveUsers resolves the set of users an operation applies to. A
// non-empty filter is used as-is. Otherwise the users are discovered from
// the key files at the deployment root. Discovery happens on every call so
// that users registered between operations are picked up.
func EffectiveUsers(deployRoot string, filter []string) ([]string, error) {
	if len(filter) > 0 {
		return filter, nil
	}

	entries, err := afero.ReadDir(fs, deployRoot)
	if err != nil {
		return nil, errors.WithContext(err, "read deploy root")
	}

	var users []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != KeyExtension {
			continue
		}
		users = append(users, strings.TrimSuffix(entry.Name(), KeyExtension))
	}
	return users, nil
}

// DeployPath returns the path a script with the given logical name deploys
// to for the given user.
func DeployPath(deployRoot, user, name string) string {
	return filepath.Join(deployRoot, user, ScriptsDir, name+DeployedExtension)
}
