package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []any{
	&Import{},
	&ImportMarker{},
}

// Import is one archived file import.
type Import struct {
	ID            uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	CreatedAt     time.Time      `json:"createdAt"`
	Source        string         `json:"source" gorm:"size:255;index:idx_import_source"`
	ImportedAt    time.Time      `json:"importedAt" gorm:"index:idx_import_imported_at"`
	AcceptedCount int            `json:"acceptedCount"`
	TotalCount    int            `json:"totalCount"`
	GroupCount    int            `json:"groupCount"`
	Groups        datatypes.JSON `json:"groups"` // []core.GroupSummary in legend order
	Markers       []ImportMarker `json:"markers,omitempty" gorm:"foreignKey:ImportID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*Import) TableName() string {
	return "imports"
}

// ImportMarker is one accepted record of an import.
type ImportMarker struct {
	ID          uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	ImportID    uint       `json:"importId" gorm:"index:idx_import_marker_import_id"`
	InputIndex  int        `json:"index"` // 0-based position in the source file
	Name        string     `json:"name" gorm:"size:255"`
	Description string     `json:"description" gorm:"size:2000"`
	Color       string     `json:"color" gorm:"size:64"`
	GroupName   string     `json:"group" gorm:"size:127;index:idx_import_marker_group"`
	Latitude    float64    `json:"lat"`
	Longitude   float64    `json:"lng"`
	Geohash     string     `json:"geohash" gorm:"size:12;index:idx_import_marker_geohash"`
	Position    geom.Point `json:"position"` // Web Mercator (EPSG:3857)
}

func (*ImportMarker) TableName() string {
	return "import_markers"
}
