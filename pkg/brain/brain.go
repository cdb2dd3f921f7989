// Package brain is a JSON-file-backed key-value store standing in for the
// chat bot's persistent memory. With an empty path it keeps data in memory
// only, which is what the tests use.
package brain

import (
	"encoding/json"
	"log"
	"os"
	"sync"

	"github.com/function61/gokit/jsonfile"
	"github.com/function61/gokit/logex"
)

type Brain struct {
	path string
	mu   sync.Mutex
	data map[string]json.RawMessage
	logl *logex.Leveled
}

func New(path string, logger *log.Logger) (*Brain, error) {
	b := &Brain{
		path: path,
		data: map[string]json.RawMessage{},
		logl: logex.Levels(logger),
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := jsonfile.Read(path, &b.data, true); err != nil {
				return nil, err
			}

			b.logl.Info.Printf("loaded %d key(s) from %s", len(b.data), path)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return b, nil
}

// Get unmarshals the value stored under key into v. Absence is not an error.
func (b *Brain) Get(key string, v interface{}) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, found := b.data[key]
	if !found {
		return false, nil
	}

	return true, json.Unmarshal(raw, v)
}

// Set stores v under key and, when file-backed, persists the whole brain.
func (b *Brain) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[key] = raw

	return b.flush()
}

func (b *Brain) flush() error {
	if b.path == "" {
		return nil
	}

	return jsonfile.Write(b.path, &b.data)
}
