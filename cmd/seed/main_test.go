package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFlags(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "seed", cmd.Use)

	defaults := map[string]string{
		"users":        "10",
		"screams":      "30",
		"max-likes":    "6",
		"max-comments": "4",
		"rand-seed":    "0",
		"clean":        "true",
	}
	for name, want := range defaults {
		t.Run(name, func(t *testing.T) {
			f := cmd.Flags().Lookup(name)
			require.NotNil(t, f)
			assert.Equal(t, want, f.DefValue)
		})
	}
}

func TestSeedRejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
