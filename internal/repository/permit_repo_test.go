package repository

import (
	"context"
	"fmt"
	"testing"

	"waterpermits/internal/database"
	"waterpermits/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPermitsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:permits_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Permit{}, &domain.PermitPhoto{}))
	return db
}

func strptr(s string) *string { return &s }

func seedPermits(t *testing.T, db *gorm.DB) {
	t.Helper()
	rows := []domain.Permit{
		{ID: 1, Permit: strptr("A1"), Grantee: strptr("Aqua Ventures"), Municipality: strptr("Pasig"), Purpose: strptr("industrial")},
		{ID: 2, Permit: strptr("A2"), Grantee: strptr("Riverside Homeowners"), Municipality: strptr("Pasig"), Purpose: strptr("domestic"), Remarks: strptr("ok")},
		{ID: 3, Permit: strptr("A3"), Grantee: strptr("Fort Bonifacio Estates"), Municipality: strptr("Taguig"), Purpose: strptr("commercial"), Remarks: strptr("")},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}
}

func permitNumbers(page *PermitPage) []string {
	var out []string
	for _, p := range page.Permits {
		out = append(out, *p.Permit)
	}
	return out
}

func TestListFilterByMunicipality(t *testing.T) {
	db := setupPermitsDB(t)
	seedPermits(t, db)
	repo := NewPermitRepository(db)

	page, err := repo.List(context.Background(), PermitFilters{Municipality: "Pasig"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, permitNumbers(page))
	assert.EqualValues(t, 2, page.Total)
}

func TestListRemarksTriState(t *testing.T) {
	db := setupPermitsDB(t)
	seedPermits(t, db)
	repo := NewPermitRepository(db)
	ctx := context.Background()

	with, err := repo.List(ctx, PermitFilters{Remarks: "with"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, permitNumbers(with))

	without, err := repo.List(ctx, PermitFilters{Remarks: "without"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A3"}, permitNumbers(without))

	all, err := repo.List(ctx, PermitFilters{})
	require.NoError(t, err)
	assert.Len(t, all.Permits, 3)
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	db := setupPermitsDB(t)
	seedPermits(t, db)
	repo := NewPermitRepository(db)

	page, err := repo.List(context.Background(), PermitFilters{Search: "riverside"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, permitNumbers(page))
}

func TestListSortAllowList(t *testing.T) {
	db := setupPermitsDB(t)
	seedPermits(t, db)
	repo := NewPermitRepository(db)
	ctx := context.Background()

	// a column outside the allow-list must not error and must fall back
	// to ID ascending
	page, err := repo.List(ctx, PermitFilters{Sort: "deleted_at", Direction: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2", "A3"}, permitNumbers(page))

	byGrantee, err := repo.List(ctx, PermitFilters{Sort: "grantee", Direction: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A2", "A3", "A1"}, permitNumbers(byGrantee))

	// anything but exactly "desc" means ascending
	byGranteeAsc, err := repo.List(ctx, PermitFilters{Sort: "grantee", Direction: "DESC"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A3", "A2"}, permitNumbers(byGranteeAsc))
}

func TestListPageSizeAllowList(t *testing.T) {
	db := setupPermitsDB(t)
	seedPermits(t, db)
	repo := NewPermitRepository(db)

	page, err := repo.List(context.Background(), PermitFilters{PerPage: 7})
	require.NoError(t, err)
	assert.Equal(t, 25, page.PerPage)

	page, err = repo.List(context.Background(), PermitFilters{PerPage: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, page.PerPage)
}

func TestListPagination(t *testing.T) {
	db := setupPermitsDB(t)
	repo := NewPermitRepository(db)

	for i := int64(1); i <= 30; i++ {
		num := fmt.Sprintf("P%02d", i)
		require.NoError(t, db.Create(&domain.Permit{ID: i, Permit: &num}).Error)
	}

	page, err := repo.List(context.Background(), PermitFilters{PerPage: 10, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.LastPage)
	assert.EqualValues(t, 30, page.Total)
	assert.Equal(t, "P11", *page.Permits[0].Permit)
}

func TestListMissingTableReturnsEmpty(t *testing.T) {
	dsn := fmt.Sprintf("file:permits_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	repo := NewPermitRepository(db)

	page, err := repo.List(context.Background(), PermitFilters{})
	require.NoError(t, err)
	assert.Empty(t, page.Permits)
	assert.EqualValues(t, 0, page.Total)

	opts, err := repo.Options(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opts.Municipalities)
	assert.Empty(t, opts.Sources)
}

func TestOptionsDistinctSorted(t *testing.T) {
	db := setupPermitsDB(t)
	seedPermits(t, db)
	repo := NewPermitRepository(db)

	opts, err := repo.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasig", "Taguig"}, opts.Municipalities)
	assert.Equal(t, []string{"commercial", "domestic", "industrial"}, opts.Purposes)
	assert.Empty(t, opts.Sources)
}

func TestUpdateFieldsPartial(t *testing.T) {
	db := setupPermitsDB(t)
	seedPermits(t, db)
	repo := NewPermitRepository(db)
	ctx := context.Background()

	err := repo.UpdateFields(ctx, 1, map[string]any{"grantee": "Renamed Corp"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Corp", *got.Grantee)
	// untouched column survives
	assert.Equal(t, "Pasig", *got.Municipality)
}

func TestDeleteCascadesToPhotos(t *testing.T) {
	db := setupPermitsDB(t)
	seedPermits(t, db)
	permitRepo := NewPermitRepository(db)
	photoRepo := NewPermitPhotoRepository(db)
	ctx := context.Background()

	for _, kind := range []domain.PhotoKind{domain.PhotoKindPDF, domain.PhotoKindPhoto} {
		require.NoError(t, photoRepo.Create(ctx, &domain.PermitPhoto{
			PermitID: 1, Filename: "f", OriginalName: "o", Path: "p", Kind: kind,
		}))
	}

	require.NoError(t, permitRepo.Delete(ctx, 1))

	_, err := permitRepo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	left, err := photoRepo.ListByPermit(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, left)
}
