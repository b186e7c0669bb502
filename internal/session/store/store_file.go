package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	dErrors "nexuscomply/pkg/domain-errors"
)

const (
	tokenSlot   = "token"
	profileSlot = "profile.json"

	fileMode = 0o600
	dirMode  = 0o700

	nonceSize = 24
)

// FileSlots persists the two slots as files in one directory. Writes go
// through a temp file and a rename so a crash never leaves a torn slot.
// With a key, slot contents are sealed with NaCl secretbox.
type FileSlots struct {
	mu  sync.Mutex
	dir string
	key *[32]byte
}

// NewFileSlots stores slots under dir. A nil key stores them unsealed.
func NewFileSlots(dir string, key *[32]byte) *FileSlots {
	return &FileSlots{dir: dir, key: key}
}

// Dir returns the slot directory.
func (f *FileSlots) Dir() string {
	return f.dir
}

// Load returns ErrNotFound unless both slots exist. A lone slot is a
// leftover from an interrupted write and is removed.
func (f *FileSlots) Load(_ context.Context) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, tokenErr := f.read(tokenSlot)
	profile, profileErr := f.read(profileSlot)
	if errors.Is(tokenErr, fs.ErrNotExist) || errors.Is(profileErr, fs.ErrNotExist) {
		if tokenErr == nil || profileErr == nil {
			if err := f.clear(); err != nil {
				return nil, err
			}
		}
		return nil, ErrNotFound
	}
	if err := errors.Join(tokenErr, profileErr); err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(profile, &p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "session profile is unreadable")
	}
	return &Snapshot{Token: string(token), Profile: p}, nil
}

// Save writes both slots. If either write fails neither slot is replaced.
func (f *FileSlots) Save(_ context.Context, s Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, dirMode); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session directory")
	}
	profile, err := json.Marshal(s.Profile)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode session profile")
	}

	tokenTmp, err := f.writeTemp(tokenSlot, []byte(s.Token))
	if err != nil {
		return err
	}
	profileTmp, err := f.writeTemp(profileSlot, profile)
	if err != nil {
		_ = os.Remove(tokenTmp)
		return err
	}

	if err := os.Rename(tokenTmp, f.path(tokenSlot)); err != nil {
		_ = os.Remove(tokenTmp)
		_ = os.Remove(profileTmp)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist session token")
	}
	if err := os.Rename(profileTmp, f.path(profileSlot)); err != nil {
		_ = os.Remove(profileTmp)
		_ = os.Remove(f.path(tokenSlot))
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist session profile")
	}
	return nil
}

// Clear removes both slots. Clearing an empty directory is not an error.
func (f *FileSlots) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clear()
}

func (f *FileSlots) clear() error {
	var errs []error
	for _, name := range []string{tokenSlot, profileSlot} {
		if err := os.Remove(f.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear session")
	}
	return nil
}

func (f *FileSlots) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *FileSlots) read(name string) ([]byte, error) {
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		return nil, err
	}
	if f.key == nil {
		return data, nil
	}
	return open(data, f.key)
}

func (f *FileSlots) writeTemp(name string, data []byte) (string, error) {
	if f.key != nil {
		sealed, err := seal(data, f.key)
		if err != nil {
			return "", err
		}
		data = sealed
	}

	tmp, err := os.CreateTemp(f.dir, "."+name+".*")
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to write session slot")
	}
	cleanup := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to write session slot")
	}
	if err := tmp.Chmod(fileMode); err != nil {
		return cleanup(err)
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to write session slot")
	}
	return tmp.Name(), nil
}

// seal prefixes the random nonce to the box.
func seal(plain []byte, key *[32]byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seal session slot")
	}
	return secretbox.Seal(nonce[:], plain, &nonce, key), nil
}

func open(sealed []byte, key *[32]byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, dErrors.New(dErrors.CodeInternal, "session slot is not sealed")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal, "session slot could not be opened with the configured key")
	}
	return plain, nil
}
