package domain

import "time"

type PhotoKind string

const (
	PhotoKindPDF   PhotoKind = "pdf"
	PhotoKindPhoto PhotoKind = "photo"
)

// Permit mirrors the legacy permits table. Rows are imported from the
// regional registry dumps; the app only ever updates them. Every attribute
// column is nullable in the source data, hence the pointers.
type Permit struct {
	ID           int64   `gorm:"column:ID;primaryKey" json:"ID"`
	Region       *string `gorm:"column:region;size:50" json:"region"`
	Province     *string `gorm:"column:province;size:50" json:"province"`
	Municipality *string `gorm:"column:municipality;size:50" json:"municipality"`
	Permit       *string `gorm:"column:permit;size:10" json:"permit"`
	Grantee      *string `gorm:"column:grantee;size:255" json:"grantee"`
	Location     *string `gorm:"column:location" json:"location"`
	Source       *string `gorm:"column:source;size:20" json:"source"`
	Type         *string `gorm:"column:type;size:20" json:"type"`
	Latitude     *string `gorm:"column:latitude;size:25" json:"latitude"`
	Longitude    *string `gorm:"column:longitude;size:25" json:"longitude"`
	Charges      *string `gorm:"column:charges;type:decimal(12,2)" json:"charges"`
	Granted      *string `gorm:"column:granted;type:decimal(12,2)" json:"granted"`
	Purpose      *string `gorm:"column:purpose;size:30" json:"purpose"`
	DateApp      *string `gorm:"column:date_app;size:25" json:"date_app"`
	Remarks      *string `gorm:"column:remarks" json:"remarks"`
	// Filepath is the pre-attachment single-PDF column from the imported
	// table. Superseded by permit_photos; kept so imports still load.
	Filepath *string `gorm:"column:filepath" json:"-"`
}

func (Permit) TableName() string { return "permits" }

// PermitPhoto is one stored attachment (PDF or geotagged photo) of a permit.
type PermitPhoto struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PermitID     int64     `gorm:"column:permit_id;index" json:"permit_id"`
	Filename     string    `gorm:"column:filename" json:"filename"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	Path         string    `gorm:"column:path" json:"-"`
	Kind         PhotoKind `gorm:"column:type;default:photo" json:"type"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"-"`
}

func (PermitPhoto) TableName() string { return "permit_photos" }

func (p PermitPhoto) IsPDF() bool { return p.Kind == PhotoKindPDF }
