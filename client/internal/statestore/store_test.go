package statestore

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", dbFilename))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTemp(t)
	ctx := context.Background()
	base := "http://localhost:8080/api/v1"

	rec := Record{
		AccessToken: "tok-1",
		Cookies: []*http.Cookie{
			{Name: "refreshToken", Value: "r1"},
			{Name: "accessToken", Value: "a1"},
		},
	}
	require.NoError(t, s.Save(ctx, base, types.RoleBankOfficer, rec))

	got, ok, err := s.Load(ctx, base, types.RoleBankOfficer)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", got.AccessToken)
	require.Len(t, got.Cookies, 2)
	assert.Equal(t, "accessToken", got.Cookies[0].Name)
	assert.Equal(t, "r1", got.Cookies[1].Value)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestRolesAreIndependent(t *testing.T) {
	t.Parallel()
	s := openTemp(t)
	ctx := context.Background()
	base := "http://x"

	require.NoError(t, s.Save(ctx, base, types.RoleCustomer, Record{AccessToken: "c"}))
	_, ok, err := s.Load(ctx, base, types.RoleSBPAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Load(ctx, "http://other", types.RoleCustomer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveReplacesAndDeleteCascades(t *testing.T) {
	t.Parallel()
	s := openTemp(t)
	ctx := context.Background()
	base := "http://x"

	require.NoError(t, s.Save(ctx, base, types.RoleCustomer, Record{Cookies: []*http.Cookie{{Name: "old", Value: "1"}}}))
	require.NoError(t, s.Save(ctx, base, types.RoleCustomer, Record{Cookies: []*http.Cookie{{Name: "new", Value: "2"}}}))
	got, ok, err := s.Load(ctx, base, types.RoleCustomer)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Cookies, 1)
	assert.Equal(t, "new", got.Cookies[0].Name)

	require.NoError(t, s.Delete(ctx, base, types.RoleCustomer))
	_, ok, err = s.Load(ctx, base, types.RoleCustomer)
	require.NoError(t, err)
	assert.False(t, ok)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM SessionCookies`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestDataDir(t *testing.T) {
	t.Parallel()
	tmp := filepath.Join(t.TempDir(), "state")
	dir, err := DataDir(tmp)
	require.NoError(t, err)
	assert.Equal(t, tmp, dir)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	p, err := DBPath(tmp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, dbFilename), p)
}
