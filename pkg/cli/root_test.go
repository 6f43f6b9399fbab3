package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	assert.Equal(t, "backofficectl", root.Name)
	for _, name := range []string{"login", "logout", "whoami", "tenant"} {
		assert.Contains(t, root.Subcommands, name)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"backofficectl", "frobnicate"}
	err := NewRootCommand().Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestExecuteNoArgsPrintsUsage(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"backofficectl"}
	assert.NoError(t, NewRootCommand().Execute())
}

func TestDefaultCredentialsFile(t *testing.T) {
	path := defaultCredentialsFile()
	assert.Contains(t, path, ".backoffice")
	assert.Contains(t, path, "credentials.json")
}
