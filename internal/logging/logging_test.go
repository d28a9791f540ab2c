// Copyright VeeTech Ltd., 2026. All rights reserved.

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veetech/certsplit/pkg/types"
)

func TestNewDefaults(t *testing.T) {
	log, err := New(types.LoggingConfig{})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(types.LoggingConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing log level")
}

func TestNewFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "certsplit.log")

	log, err := New(types.LoggingConfig{Level: "debug", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Info("run started")

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}
