package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/markusressel/pifan/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetStatus(t *testing.T) {
	// GIVEN
	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "pifan.db"))
	require.NoError(t, p.Init())
	require.NoError(t, p.RecordCommand("fan", 55, 61.5))

	// WHEN
	err := resetStatus(p, "fan")

	// THEN
	assert.NoError(t, err)
	_, err = p.LoadLastCommand("fan")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoError(t, printStatus(p, "fan"))
}

func TestPrintStatus(t *testing.T) {
	// GIVEN
	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "pifan.db"))
	require.NoError(t, p.Init())
	require.NoError(t, p.RecordCommand("fan", 55, 61.5))

	// WHEN
	err := printStatus(p, "fan")

	// THEN
	assert.NoError(t, err)
}
