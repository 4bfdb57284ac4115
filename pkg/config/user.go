package config

import (
	"path/filepath"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/hollisdev/scriptsync/pkg/errors"
)

const (
	// UserConfigPath is the default path to the scriptsync user config.
	UserConfigPath = "~/.scriptsync.yaml"

	// InitialUserConfigVersion is the first version of the scriptsync
	// user config. Config files that do not specify a version
	// will default to this version.
	InitialUserConfigVersion = "v1alpha1"

	// SupportedUserConfigVersion is the supported version of the
	// scriptsync user config of the current scriptsync binary.
	SupportedUserConfigVersion = "v1alpha1"
)

// User contains the per-machine scriptsync configuration.
type User struct {
	Version string `json:"version,omitempty"`

	// Source is the root of the script source tree. Global scripts live
	// directly under it, and private overrides live in per-user
	// subdirectories.
	Source string `json:"source"`

	// Deploy is the deployment root of the scripting host. Each known user
	// has a key file, a macros file, and a scripts directory under it.
	Deploy string `json:"deploy"`

	// Users restricts syncing to the given user ids. When empty, the users
	// are discovered from the key files at the deployment root.
	Users []string `json:"users,omitempty"`

	// Scripts restricts syncing to the given logical script names. When
	// empty, all scripts are synced.
	Scripts []string `json:"scripts,omitempty"`
}

func (u User) getVersion() string {
	return u.Version
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// ParseUser attempts to parse the User stored in the default path.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config := User{Version: InitialUserConfigVersion}
	if err := parseConfig(path, &config, SupportedUserConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return User{}, errors.NewFriendlyError("The scriptsync user config "+
				"file doesn't exist at %q. Please run `scriptsync config` to "+
				"create it.", path)
		}
		return User{}, errors.WithContext(err, "parse")
	}

	config.Source, err = homedir.Expand(config.Source)
	if err != nil {
		return User{}, errors.WithContext(err, "expand source path")
	}

	config.Deploy, err = homedir.Expand(config.Deploy)
	if err != nil {
		return User{}, errors.WithContext(err, "expand deploy path")
	}

	// Evaluate relative paths relative to the config path.
	if config.Source != "" && !filepath.IsAbs(config.Source) {
		config.Source = filepath.Join(filepath.Dir(path), config.Source)
	}
	if config.Deploy != "" && !filepath.IsAbs(config.Deploy) {
		config.Deploy = filepath.Join(filepath.Dir(path), config.Deploy)
	}
	return config, nil
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetUserConfigPath returns the path to the user's scriptsync configuration.
// This path is expanded, so it can be directly passed to file operations.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}
