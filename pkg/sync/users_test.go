package sync

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveUsers(t *testing.T) {
	fs = afero.NewMemMapFs()
	registerUser(t, "alice")
	registerUser(t, "bob")
	require.NoError(t, afero.WriteFile(fs, "/deploy/stray.macros", nil, 0644))
	require.NoError(t, fs.MkdirAll("/deploy/alice/scripts", 0755))

	users, err := EffectiveUsers("/deploy", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, users)

	// A non-empty filter short-circuits discovery entirely.
	users, err = EffectiveUsers("/deploy", []string{"carol"})
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, users)
}

func TestEffectiveUsersPicksUpNewKeys(t *testing.T) {
	fs = afero.NewMemMapFs()
	registerUser(t, "alice")

	users, err := EffectiveUsers("/deploy", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, users)

	registerUser(t, "bob")
	users, err = EffectiveUsers("/deploy", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, users)
}

func TestDeployPath(t *testing.T) {
	assert.Equal(t, "/deploy/alice/scripts/foo.js", DeployPath("/deploy", "alice", "foo"))
}
