package permits

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"

	"waterpermits/internal/database"
	"waterpermits/internal/domain"
	"waterpermits/internal/repository"
	"waterpermits/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF")
	pngBytes  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13}
	jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
)

func setupService(t *testing.T) (*Service, *gorm.DB, *storage.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:psvc_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Permit{}, &domain.PermitPhoto{}))

	store := storage.NewStore(t.TempDir(), "/storage")
	svc := NewService(
		repository.NewPermitRepository(db),
		repository.NewPermitPhotoRepository(db),
		store,
	)
	return svc, db, store
}

func seedPermit(t *testing.T, db *gorm.DB, id int64, grantee string) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Permit{ID: id, Grantee: &grantee}).Error)
}

// fileHeader builds a real multipart.FileHeader the way gin would hand one
// to the handler, by writing and re-parsing an actual multipart body.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func strp(s string) *string { return &s }

func TestUpdateScalars(t *testing.T) {
	svc, db, _ := setupService(t)
	seedPermit(t, db, 1, "Aqua Ventures")
	ctx := context.Background()

	err := svc.Update(ctx, 1, UpdatePermitRequest{
		Grantee: strp("Renamed Corp"),
		Charges: strp("1234.5"),
	}, nil, nil)
	require.NoError(t, err)

	detail, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Corp", *detail.Permit.Grantee)
	assert.Equal(t, "1234.50", *detail.Permit.Charges)
}

func TestUpdateRejectsOversizedField(t *testing.T) {
	svc, db, _ := setupService(t)
	seedPermit(t, db, 1, "Aqua Ventures")
	ctx := context.Background()

	err := svc.Update(ctx, 1, UpdatePermitRequest{
		Grantee: strp(strings.Repeat("x", 300)),
	}, nil, nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "grantee")

	// nothing was written
	detail, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Aqua Ventures", *detail.Permit.Grantee)
}

func TestUpdateRejectsNonNumericCharges(t *testing.T) {
	svc, db, _ := setupService(t)
	seedPermit(t, db, 1, "Aqua Ventures")

	err := svc.Update(context.Background(), 1, UpdatePermitRequest{
		Charges: strp("12,000 pesos"),
	}, nil, nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "charges")
}

func TestUpdateUnknownPermit(t *testing.T) {
	svc, _, _ := setupService(t)

	err := svc.Update(context.Background(), 999, UpdatePermitRequest{}, nil, nil)
	assert.ErrorIs(t, err, ErrPermitNotFound)
}

func TestUpdateStoresPDFAndPhotos(t *testing.T) {
	svc, db, store := setupService(t)
	seedPermit(t, db, 1, "Aqua Ventures")
	ctx := context.Background()

	pdf := fileHeader(t, "permit scan.pdf", pdfBytes)
	photos := []*multipart.FileHeader{
		fileHeader(t, "site.png", pngBytes),
		fileHeader(t, "intake.jpg", jpegBytes),
	}

	require.NoError(t, svc.Update(ctx, 1, UpdatePermitRequest{}, pdf, photos))

	detail, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, detail.Photos, 3)

	var kinds []domain.PhotoKind
	for _, p := range detail.Photos {
		kinds = append(kinds, p.Kind)
		assert.True(t, strings.HasPrefix(p.URL, "/storage/permits/1/"))
	}
	assert.ElementsMatch(t, []domain.PhotoKind{
		domain.PhotoKindPDF, domain.PhotoKindPhoto, domain.PhotoKindPhoto,
	}, kinds)

	var rows []domain.PermitPhoto
	require.NoError(t, db.Order("id").Find(&rows).Error)
	for _, row := range rows {
		assert.True(t, store.Exists(row.Path), "blob missing for %s", row.Path)
		ext := filepath.Ext(row.Filename)
		assert.NotEqual(t, row.OriginalName, row.Filename)
		if row.IsPDF() {
			assert.Equal(t, ".pdf", ext)
			assert.Equal(t, "permit scan.pdf", row.OriginalName)
		}
	}
}

func TestUpdateRejectsMislabeledPDF(t *testing.T) {
	svc, db, _ := setupService(t)
	seedPermit(t, db, 1, "Aqua Ventures")

	// PNG content behind a .pdf name must not pass the sniff
	fake := fileHeader(t, "scan.pdf", pngBytes)
	err := svc.Update(context.Background(), 1, UpdatePermitRequest{}, fake, nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "pdf")
}

func TestUpdateRejectsBadPhotoKeepsEverything(t *testing.T) {
	svc, db, _ := setupService(t)
	seedPermit(t, db, 1, "Aqua Ventures")
	ctx := context.Background()

	good := fileHeader(t, "site.png", pngBytes)
	bad := fileHeader(t, "notes.txt", []byte("plain text"))

	err := svc.Update(ctx, 1, UpdatePermitRequest{
		Grantee: strp("Should Not Stick"),
	}, nil, []*multipart.FileHeader{good, bad})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "photos.1")

	// all-or-nothing: the valid photo was not ingested and the scalar
	// update did not happen
	detail, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, detail.Photos)
	assert.Equal(t, "Aqua Ventures", *detail.Permit.Grantee)
}

func TestDeletePhotoRemovesRowAndBlob(t *testing.T) {
	svc, db, store := setupService(t)
	seedPermit(t, db, 1, "Aqua Ventures")
	ctx := context.Background()

	photo := fileHeader(t, "site.png", pngBytes)
	require.NoError(t, svc.Update(ctx, 1, UpdatePermitRequest{}, nil, []*multipart.FileHeader{photo}))

	var row domain.PermitPhoto
	require.NoError(t, db.First(&row).Error)
	require.True(t, store.Exists(row.Path))

	require.NoError(t, svc.DeletePhoto(ctx, row.ID))

	assert.False(t, store.Exists(row.Path))
	detail, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, detail.Photos)
}

func TestDeletePhotoUnknownID(t *testing.T) {
	svc, _, _ := setupService(t)

	err := svc.DeletePhoto(context.Background(), 404)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}
