package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func createPersistence(t *testing.T) Persistence {
	p := NewPersistence(filepath.Join(t.TempDir(), "pifan.db"))
	require.NoError(t, p.Init())
	return p
}

func TestPersistence_Init_CreatesDirectory(t *testing.T) {
	// GIVEN
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	p := NewPersistence(filepath.Join(dir, "pifan.db"))

	// WHEN
	err := p.Init()

	// THEN
	assert.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPersistence_LoadLastCommand_Missing(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	_, err := p.LoadLastCommand("fan")

	// THEN
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPersistence_SaveAndLoadLastCommand(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	expected := LastCommand{
		FanId: "fan",
		Duty:  43,
		Temp:  41.5,
		Time:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	// WHEN
	err := p.SaveLastCommand(expected)
	require.NoError(t, err)
	result, err := p.LoadLastCommand("fan")

	// THEN
	require.NoError(t, err)
	assert.Equal(t, expected.FanId, result.FanId)
	assert.Equal(t, expected.Duty, result.Duty)
	assert.Equal(t, expected.Temp, result.Temp)
	assert.True(t, expected.Time.Equal(result.Time))
}

func TestPersistence_RecordCommand_Overwrites(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p.(*persistence).now = func() time.Time { return now }

	// WHEN
	require.NoError(t, p.RecordCommand("fan", 40, 40))
	require.NoError(t, p.RecordCommand("fan", 60, 50))

	// THEN
	result, err := p.LoadLastCommand("fan")
	require.NoError(t, err)
	assert.Equal(t, 60, result.Duty)
	assert.Equal(t, 50.0, result.Temp)
	assert.True(t, now.Equal(result.Time))
}

func TestPersistence_DeleteLastCommand(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.RecordCommand("fan", 40, 40))

	// WHEN
	err := p.DeleteLastCommand("fan")

	// THEN
	assert.NoError(t, err)
	_, err = p.LoadLastCommand("fan")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPersistence_DeleteLastCommand_NoBucket(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	err := p.DeleteLastCommand("fan")

	// THEN
	assert.NoError(t, err)
}

func TestPersistence_LoadLastCommand_CorruptDataIsDeleted(t *testing.T) {
	// GIVEN
	dbPath := filepath.Join(t.TempDir(), "pifan.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketCommands))
		if err != nil {
			return err
		}
		return b.Put([]byte("fan"), []byte("{not json"))
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())
	p := NewPersistence(dbPath)

	// WHEN
	_, err = p.LoadLastCommand("fan")

	// THEN
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = p.LoadLastCommand("fan")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
