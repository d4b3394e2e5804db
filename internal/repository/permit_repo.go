package repository

import (
	"context"
	"fmt"
	"strings"

	"waterpermits/internal/domain"

	"gorm.io/gorm"
)

// PermitFilters carries the raw list query as the client sent it. Values
// outside the allow-lists are not errors; they fall back to safe defaults.
type PermitFilters struct {
	Search       string
	Municipality string
	Type         string
	Purpose      string
	Source       string
	Remarks      string // "", "with", "without"
	Sort         string
	Direction    string
	PerPage      int
	Page         int
}

type PermitPage struct {
	Permits  []domain.Permit `json:"data"`
	Total    int64           `json:"total"`
	Page     int             `json:"current_page"`
	PerPage  int             `json:"per_page"`
	LastPage int             `json:"last_page"`
}

// FilterOptions are the distinct non-null column values used to build the
// filter pickers.
type FilterOptions struct {
	Municipalities []string `json:"municipalities"`
	Types          []string `json:"types"`
	Purposes       []string `json:"purposes"`
	Sources        []string `json:"sources"`
}

const defaultPerPage = 25

// permitSortColumns is the ORDER BY allow-list. Anything else silently
// becomes "ID" ascending so client-supplied sort keys can never reach SQL.
var permitSortColumns = map[string]bool{
	"ID":           true,
	"permit":       true,
	"grantee":      true,
	"municipality": true,
	"purpose":      true,
	"date_app":     true,
	"charges":      true,
	"granted":      true,
}

var permitPageSizes = map[int]bool{10: true, 25: true, 50: true, 100: true}

type PermitRepository struct {
	db *gorm.DB
}

func NewPermitRepository(db *gorm.DB) *PermitRepository {
	return &PermitRepository{db: db}
}

// List runs the filtered, sorted, paginated permits query. On a database
// that has no permits table yet (first deploy, data not imported) it returns
// an empty page instead of failing.
func (r *PermitRepository) List(ctx context.Context, f PermitFilters) (*PermitPage, error) {
	perPage := f.PerPage
	if !permitPageSizes[perPage] {
		perPage = defaultPerPage
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	if !r.db.WithContext(ctx).Migrator().HasTable("permits") {
		return &PermitPage{Permits: []domain.Permit{}, Page: 1, PerPage: perPage, LastPage: 1}, nil
	}

	q := r.db.WithContext(ctx).Model(&domain.Permit{})

	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		pat := "%" + s + "%"
		q = q.Where(
			`LOWER(permit) LIKE ? OR LOWER(grantee) LIKE ? OR LOWER(municipality) LIKE ?
			 OR LOWER(province) LIKE ? OR LOWER(location) LIKE ? OR LOWER(purpose) LIKE ?
			 OR LOWER(source) LIKE ? OR LOWER(type) LIKE ?`,
			pat, pat, pat, pat, pat, pat, pat, pat,
		)
	}

	if f.Municipality != "" {
		q = q.Where("municipality = ?", f.Municipality)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Purpose != "" {
		q = q.Where("purpose = ?", f.Purpose)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}

	switch f.Remarks {
	case "with":
		q = q.Where("remarks IS NOT NULL AND remarks != ''")
	case "without":
		q = q.Where("remarks IS NULL OR remarks = ''")
	}

	sortCol, sortDir := "ID", "asc"
	if permitSortColumns[f.Sort] {
		sortCol = f.Sort
		if f.Direction == "desc" {
			sortDir = "desc"
		}
	}
	// %q keeps the mixed-case ID column working on postgres
	q = q.Order(fmt.Sprintf("%q %s", sortCol, sortDir))

	// clone before counting, Count would otherwise mutate the query
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	var permits []domain.Permit
	err := q.Limit(perPage).Offset((page - 1) * perPage).Find(&permits).Error
	if err != nil {
		return nil, err
	}
	if permits == nil {
		permits = []domain.Permit{}
	}

	return &PermitPage{
		Permits:  permits,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage,
	}, nil
}

// Options returns the distinct non-null values of the four filterable
// columns, ascending. Empty lists when the table is absent.
func (r *PermitRepository) Options(ctx context.Context) (*FilterOptions, error) {
	opts := &FilterOptions{
		Municipalities: []string{},
		Types:          []string{},
		Purposes:       []string{},
		Sources:        []string{},
	}
	if !r.db.WithContext(ctx).Migrator().HasTable("permits") {
		return opts, nil
	}

	for _, c := range []struct {
		col  string
		dest *[]string
	}{
		{"municipality", &opts.Municipalities},
		{"type", &opts.Types},
		{"purpose", &opts.Purposes},
		{"source", &opts.Sources},
	} {
		err := r.db.WithContext(ctx).
			Model(&domain.Permit{}).
			Distinct(c.col).
			Where(c.col + " IS NOT NULL").
			Order(c.col + " asc").
			Pluck(c.col, c.dest).Error
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func (r *PermitRepository) GetByID(ctx context.Context, id int64) (*domain.Permit, error) {
	var p domain.Permit
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateFields applies a partial update. Keys are column names from the
// update allow-list; absent fields stay untouched.
func (r *PermitRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Permit{ID: id}).
		Updates(fields).Error
}

// Delete removes a permit and all its attachment rows in one transaction.
// Blob cleanup is the caller's job (it needs the paths first).
func (r *PermitRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permit_id = ?", id).Delete(&domain.PermitPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Permit{ID: id}).Error
	})
}
