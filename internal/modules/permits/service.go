package permits

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"waterpermits/internal/domain"
	"waterpermits/internal/pkg/validator"
	"waterpermits/internal/repository"
	"waterpermits/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxPDFSize   = 20 << 20 // 20 MB
	maxPhotoSize = 10 << 20 // 10 MB per file
)

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var photoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Service orchestrates permit queries, updates and attachment handling.
type Service struct {
	permits *repository.PermitRepository
	photos  *repository.PermitPhotoRepository
	store   *storage.Store
}

func NewService(
	permits *repository.PermitRepository,
	photos *repository.PermitPhotoRepository,
	store *storage.Store,
) *Service {
	return &Service{permits: permits, photos: photos, store: store}
}

func (s *Service) List(ctx context.Context, q ListPermitsQuery) (*ListResult, error) {
	page, err := s.permits.List(ctx, q.Filters())
	if err != nil {
		return nil, err
	}
	opts, err := s.permits.Options(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Permits: page, Options: opts, Filters: q}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*PermitDetail, error) {
	permit, err := s.permits.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPermitNotFound
	}
	if err != nil {
		return nil, err
	}

	photos, err := s.photos.ListByPermit(ctx, id)
	if err != nil {
		return nil, err
	}

	views := make([]PhotoView, 0, len(photos))
	for _, p := range photos {
		views = append(views, PhotoView{
			ID:           p.ID,
			Kind:         p.Kind,
			OriginalName: p.OriginalName,
			URL:          s.store.URL(p.Path),
		})
	}

	return &PermitDetail{Permit: permit, Photos: views}, nil
}

// Update validates everything first (scalars and files, all-or-nothing),
// then applies the scalar update, then ingests the files. A file-store
// failure after the scalar write does not roll the scalars back.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdatePermitRequest,
	pdf *multipart.FileHeader,
	photoFiles []*multipart.FileHeader,
) error {
	if _, err := s.permits.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermitNotFound
		}
		return err
	}

	fieldErrs := validator.Validate(req)
	if fieldErrs == nil {
		fieldErrs = map[string]string{}
	}
	if pdf != nil {
		if reason := validatePDF(pdf); reason != "" {
			fieldErrs["pdf"] = reason
		}
	}
	for i, f := range photoFiles {
		if reason := validatePhoto(f); reason != "" {
			fieldErrs[fmt.Sprintf("photos.%d", i)] = reason
		}
	}
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}

	normalizeAmount(req.Charges)
	normalizeAmount(req.Granted)

	if err := s.permits.UpdateFields(ctx, id, req.columns()); err != nil {
		return err
	}

	if pdf != nil {
		if err := s.ingest(ctx, id, pdf, domain.PhotoKindPDF); err != nil {
			return err
		}
	}
	for _, f := range photoFiles {
		if err := s.ingest(ctx, id, f, domain.PhotoKindPhoto); err != nil {
			return err
		}
	}
	return nil
}

// DeletePhoto removes the blob then the metadata row. A failed blob delete
// is logged and the row still goes; a stale file is better than a stale
// listing.
func (s *Service) DeletePhoto(ctx context.Context, id int64) error {
	photo, err := s.photos.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPhotoNotFound
	}
	if err != nil {
		return err
	}

	if err := s.store.Delete(photo.Path); err != nil {
		log.Printf("blob delete failed for attachment %d path=%s: %v", id, photo.Path, err)
	}
	return s.photos.Delete(ctx, id)
}

func (s *Service) ingest(ctx context.Context, permitID int64, fh *multipart.FileHeader, kind domain.PhotoKind) error {
	subdir := "photos"
	if kind == domain.PhotoKindPDF {
		subdir = "pdf"
	}
	relDir := fmt.Sprintf("permits/%d/%s", permitID, subdir)
	filename := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))

	relPath, err := s.store.Save(fh, relDir, filename)
	if err != nil {
		return err
	}

	photo := &domain.PermitPhoto{
		PermitID:     permitID,
		Filename:     filename,
		OriginalName: fh.Filename,
		Path:         relPath,
		Kind:         kind,
		Size:         fh.Size,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		// blob is already on disk; the orphan is accepted, not reconciled
		log.Printf("attachment metadata write failed, orphan blob at %s: %v", relPath, err)
		return err
	}
	return nil
}

func validatePDF(fh *multipart.FileHeader) string {
	if fh.Size > maxPDFSize {
		return "file may not be greater than 20 MB"
	}
	if strings.ToLower(filepath.Ext(fh.Filename)) != ".pdf" {
		return "file must be a PDF"
	}
	if sniffMime(fh) != "application/pdf" {
		return "file must be a PDF"
	}
	return ""
}

func validatePhoto(fh *multipart.FileHeader) string {
	if fh.Size > maxPhotoSize {
		return "file may not be greater than 10 MB"
	}
	if !photoExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
		return "file must be of type jpg, jpeg, png or webp"
	}
	if !photoMimeTypes[sniffMime(fh)] {
		return "file must be of type jpg, jpeg, png or webp"
	}
	return ""
}

// sniffMime detects the content type from the first 512 bytes, the same way
// the stdlib serves files. Extension lies, content doesn't.
func sniffMime(fh *multipart.FileHeader) string {
	f, err := fh.Open()
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	mime := http.DetectContentType(buf[:n])
	return strings.Split(mime, ";")[0]
}

// normalizeAmount rewrites a numeric string to fixed 2-decimal form in
// place. Validation has already guaranteed it parses.
func normalizeAmount(v *string) {
	if v == nil {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil {
		return
	}
	*v = strconv.FormatFloat(f, 'f', 2, 64)
}
