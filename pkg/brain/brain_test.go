package brain

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/function61/gokit/assert"
)

func TestInMemory(t *testing.T) {
	b, err := New("", nil)
	assert.Ok(t, err)

	value := ""
	found, err := b.Get("greeting", &value)
	assert.Ok(t, err)
	assert.Assert(t, !found)

	assert.Ok(t, b.Set("greeting", "hello"))

	found, err = b.Get("greeting", &value)
	assert.Ok(t, err)
	assert.Assert(t, found)
	assert.EqualString(t, value, "hello")
}

func TestFileBacked(t *testing.T) {
	dir, err := ioutil.TempDir("", "brain")
	assert.Ok(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "brain.json")

	b, err := New(path, nil)
	assert.Ok(t, err)

	assert.Ok(t, b.Set("shifts", []string{"APJ", "EMEA"}))

	// a new brain over the same file sees what the previous one stored
	reopened, err := New(path, nil)
	assert.Ok(t, err)

	shifts := []string{}
	found, err := reopened.Get("shifts", &shifts)
	assert.Ok(t, err)
	assert.Assert(t, found)
	assert.Assert(t, len(shifts) == 2)
	assert.EqualString(t, shifts[0], "APJ")
}
