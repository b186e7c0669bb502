package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"nexuscomply/pkg/domain"
	dErrors "nexuscomply/pkg/domain-errors"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Token: "eyJhbGciOi.payload.sig",
		Profile: Profile{
			Username:               "jdoe",
			Email:                  "jdoe@example.com",
			Role:                   domain.RoleProcurementOfficer,
			Region:                 "APAC",
			FullName:               "Jane Doe",
			PasswordChangeRequired: true,
		},
	}
}

type FileSlotsSuite struct {
	suite.Suite
	dir   string
	slots *FileSlots
	ctx   context.Context
}

func TestFileSlotsSuite(t *testing.T) {
	suite.Run(t, new(FileSlotsSuite))
}

func (s *FileSlotsSuite) SetupTest() {
	s.dir = filepath.Join(s.T().TempDir(), "session")
	s.slots = NewFileSlots(s.dir, nil)
	s.ctx = context.Background()
}

func (s *FileSlotsSuite) TestLoadEmpty() {
	_, err := s.slots.Load(s.ctx)
	s.ErrorIs(err, ErrNotFound)
}

func (s *FileSlotsSuite) TestSurvivesNewInstance() {
	s.Require().NoError(s.slots.Save(s.ctx, sampleSnapshot()))

	restored, err := NewFileSlots(s.dir, nil).Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(sampleSnapshot(), *restored)
}

func (s *FileSlotsSuite) TestFilesArePrivate() {
	s.Require().NoError(s.slots.Save(s.ctx, sampleSnapshot()))

	for _, name := range []string{tokenSlot, profileSlot} {
		info, err := os.Stat(filepath.Join(s.dir, name))
		s.Require().NoError(err)
		s.Equal(os.FileMode(fileMode), info.Mode().Perm(), name)
	}
	entries, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	s.Len(entries, 2, "no temp files are left behind")
}

func (s *FileSlotsSuite) TestClearRemovesBothAndIsIdempotent() {
	s.Require().NoError(s.slots.Save(s.ctx, sampleSnapshot()))
	s.Require().NoError(s.slots.Clear(s.ctx))
	s.Require().NoError(s.slots.Clear(s.ctx))

	_, err := s.slots.Load(s.ctx)
	s.ErrorIs(err, ErrNotFound)
	s.NoFileExists(filepath.Join(s.dir, tokenSlot))
	s.NoFileExists(filepath.Join(s.dir, profileSlot))
}

func (s *FileSlotsSuite) TestLoneSlotIsDiscarded() {
	s.Require().NoError(s.slots.Save(s.ctx, sampleSnapshot()))
	s.Require().NoError(os.Remove(filepath.Join(s.dir, profileSlot)))

	_, err := s.slots.Load(s.ctx)
	s.ErrorIs(err, ErrNotFound)
	s.NoFileExists(filepath.Join(s.dir, tokenSlot))
}

func (s *FileSlotsSuite) TestOverwrite() {
	s.Require().NoError(s.slots.Save(s.ctx, sampleSnapshot()))
	next := sampleSnapshot()
	next.Token = "rotated"
	next.Profile.PasswordChangeRequired = false
	s.Require().NoError(s.slots.Save(s.ctx, next))

	got, err := s.slots.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal("rotated", got.Token)
	s.False(got.Profile.PasswordChangeRequired)
}

func (s *FileSlotsSuite) TestCorruptProfile() {
	s.Require().NoError(s.slots.Save(s.ctx, sampleSnapshot()))
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, profileSlot), []byte("{broken"), fileMode))

	_, err := s.slots.Load(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *FileSlotsSuite) TestSealed() {
	key := &[32]byte{1, 2, 3}
	sealed := NewFileSlots(s.dir, key)
	s.Require().NoError(sealed.Save(s.ctx, sampleSnapshot()))

	s.Run("raw files do not contain the token", func() {
		raw, err := os.ReadFile(filepath.Join(s.dir, tokenSlot))
		s.Require().NoError(err)
		s.NotContains(string(raw), "eyJhbGciOi")
	})

	s.Run("same key restores the snapshot", func() {
		got, err := NewFileSlots(s.dir, key).Load(s.ctx)
		s.Require().NoError(err)
		s.Equal(sampleSnapshot(), *got)
	})

	s.Run("wrong key cannot open the slots", func() {
		_, err := NewFileSlots(s.dir, &[32]byte{9}).Load(s.ctx)
		s.Require().Error(err)
		s.NotErrorIs(err, ErrNotFound)
	})

	s.Run("no key cannot read the slots", func() {
		_, err := NewFileSlots(s.dir, nil).Load(s.ctx)
		s.Require().Error(err)
		s.NotErrorIs(err, ErrNotFound)
	})
}

func TestMemorySlots(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySlots()

	_, err := m.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, sampleSnapshot()))
	got, err := m.Load(ctx)
	require.NoError(t, err)
	got.Token = "mutated"

	again, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot().Token, again.Token, "Load returns a copy")

	require.NoError(t, m.Clear(ctx))
	_, err = m.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotPrincipalRoundTrip(t *testing.T) {
	p := sampleSnapshot().Principal()
	assert.Equal(t, "eyJhbGciOi.payload.sig", p.Token)
	assert.Equal(t, sampleSnapshot(), FromPrincipal(p))
}
