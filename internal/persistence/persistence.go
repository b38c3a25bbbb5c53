package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/pifan/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketCommands = "commands"
)

// LastCommand is the duty cycle that was most recently applied to a fan
type LastCommand struct {
	FanId string    `json:"fanId"`
	Duty  int       `json:"duty"`
	Temp  float64   `json:"temp"`
	Time  time.Time `json:"time"`
}

type Persistence interface {
	Init() error

	// RecordCommand stores the given command as the last command of the fan
	RecordCommand(fanId string, duty int, temp float64) error

	SaveLastCommand(command LastCommand) error
	LoadLastCommand(fanId string) (LastCommand, error)
	DeleteLastCommand(fanId string) error
}

type persistence struct {
	dbPath string
	now    func() time.Time
}

func NewPersistence(dbPath string) Persistence {
	return &persistence{
		dbPath: dbPath,
		now:    time.Now,
	}
}

func (p persistence) Init() (err error) {
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (p persistence) RecordCommand(fanId string, duty int, temp float64) error {
	return p.SaveLastCommand(LastCommand{
		FanId: fanId,
		Duty:  duty,
		Temp:  temp,
		Time:  p.now(),
	})
}

func (p persistence) SaveLastCommand(command LastCommand) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(command)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketCommands))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(command.FanId), data)
	})
}

// LoadLastCommand returns os.ErrNotExist if no command has been saved for the given fan
func (p persistence) LoadLastCommand(fanId string) (LastCommand, error) {
	var command LastCommand

	db, err := p.openPersistence()
	if err != nil {
		return command, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	key := fanId

	corrupt := false
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketCommands))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(key))
		if v == nil {
			return os.ErrNotExist
		}

		err := json.Unmarshal(v, &command)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved command of fan %s: %v", key, err)
			err := b.Delete([]byte(key))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", key, err)
			}
			// returning an error here would roll back the delete
			corrupt = true
		}
		return nil
	})
	if err == nil && corrupt {
		return LastCommand{}, os.ErrNotExist
	}

	return command, err
}

func (p persistence) DeleteLastCommand(fanId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketCommands))
		if b == nil {
			// no bucket yet
			return nil
		}
		return b.Delete([]byte(fanId))
	})
}
