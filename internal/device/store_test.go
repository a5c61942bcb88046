package device

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "device.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)

	p := domain.OwnershipProfile{
		ID:       uuid.New(),
		Name:     "Maria Fernanda",
		Email:    "maria@example.ao",
		Document: "004567890LA041",
		Phone:    "+244 923 000 000",
		Address:  "Luanda, Talatona",
	}
	require.NoError(t, s.PutProfile(p))

	got, err := s.GetProfile(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Document, got.Document)

	list, err := s.ListProfiles()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetProfile_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetProfile(uuid.New())
	var nf *apperrors.ErrNotFound
	require.ErrorAs(t, err, &nf)
}

func TestDeleteProfile_Idempotent(t *testing.T) {
	s := openTestStore(t)

	id := uuid.New()
	require.NoError(t, s.PutProfile(domain.OwnershipProfile{ID: id, Name: "x"}))
	require.NoError(t, s.DeleteProfile(id))
	require.NoError(t, s.DeleteProfile(id)) // absent key is a no-op

	list, err := s.ListProfiles()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListProfiles_EmptyIsSliceNotNil(t *testing.T) {
	s := openTestStore(t)

	list, err := s.ListProfiles()
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCartSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.PutCart("sess-1", []byte(`{"items":[]}`)))

	data, err := s.GetCart("sess-1")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(data))

	missing, err := s.GetCart("sess-2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.DeleteCart("sess-1"))
	data, err = s.GetCart("sess-1")
	require.NoError(t, err)
	assert.Nil(t, data)
}
