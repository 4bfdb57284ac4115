package sync

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollisdev/scriptsync/pkg/errors"
)

func TestPull(t *testing.T) {
	fs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs,
		"/deploy/alice/scripts/foo.js", []byte("deployed foo"), 0644))

	syncer := Syncer{SourceRoot: "/src", DeployRoot: "/deploy"}
	require.NoError(t, syncer.Pull("alice.foo"))

	contents, err := afero.ReadFile(fs, "/src/alice/foo.js")
	require.NoError(t, err)
	assert.Equal(t, "deployed foo", string(contents))
}

func TestPullMissingScript(t *testing.T) {
	fs = afero.NewMemMapFs()

	syncer := Syncer{SourceRoot: "/src", DeployRoot: "/deploy"}
	err := syncer.Pull("alice.foo")
	require.Error(t, err)
	assert.IsType(t, errors.FileNotFound{}, errors.RootCause(err))
}

func TestPullBadTarget(t *testing.T) {
	syncer := Syncer{SourceRoot: "/src", DeployRoot: "/deploy"}
	for _, target := range []string{"alice", "alice.", ".foo", ""} {
		assert.Error(t, syncer.Pull(target), target)
	}
}

func TestSplitTarget(t *testing.T) {
	user, name, err := splitTarget("alice.foo")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "foo", name)

	// Only the first dot separates the user from the script name.
	user, name, err = splitTarget("alice.foo.bar")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "foo.bar", name)
}
