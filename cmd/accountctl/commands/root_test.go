package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandsRequireDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	for _, args := range [][]string{
		{"migrate", "up"},
		{"migrate", "version"},
		{"orphans", "list"},
	} {
		_, err := run(t, args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "DATABASE_URL", args)
	}
}

func TestReconcileRequiresIdentityStore(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://signup@localhost/signup")
	t.Setenv("IDENTITY_STORE_URL", "")

	_, err := run(t, "orphans", "reconcile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDENTITY_STORE_URL")
}

func TestInvalidConfigStopsBeforeRunning(t *testing.T) {
	t.Setenv("CAPTCHA_MODE", "recaptcha")

	_, err := run(t, "migrate", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAPTCHA_MODE")
}
