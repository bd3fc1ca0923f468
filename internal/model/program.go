package model

import (
	"encoding/json"
	"time"
)

type Program struct {
	ID              int        `json:"id_program"`
	UniqueID        string     `json:"unique_id_program"`
	ProjectID       int        `json:"id_project"`
	Title           string     `json:"title"`
	ShortDesc       *string    `json:"short_desc"`
	LongDesc        *string    `json:"long_desc"`
	FormMessage     *string    `json:"form_message"`
	Image           *string    `json:"image"`
	Logo            *string    `json:"logo"`
	ModuleID        int        `json:"id_module"`
	TaxonomyList    *int       `json:"taxonomy_list"`
	IsActive        bool       `json:"is_active"`
	GeomID          *int       `json:"id_geom"`
	FormID          *int       `json:"id_form"`
	GeometryType    string     `json:"geometry_type"` // POINT / LINESTRING / POLYGON
	OnSidebar       bool       `json:"on_sidebar"`
	TimestampCreate *time.Time `json:"timestamp_create"`
	TimestampUpdate *time.Time `json:"timestamp_update"`

	ModuleName string          `json:"-"`
	Geometry   json.RawMessage `json:"-"`
}

// ProgramSummary is the property set of a program in the listing.
type ProgramSummary struct {
	ID              int        `json:"id_program"`
	ProjectID       int        `json:"id_project"`
	Title           string     `json:"title"`
	ShortDesc       *string    `json:"short_desc"`
	Image           *string    `json:"image"`
	Logo            *string    `json:"logo"`
	ModuleID        int        `json:"id_module"`
	IsActive        bool       `json:"is_active"`
	TaxonomyList    *int       `json:"taxonomy_list"`
	TimestampCreate *time.Time `json:"timestamp_create"`
	TimestampUpdate *time.Time `json:"timestamp_update"`
	GeometryType    string     `json:"geometry_type"`
	FormID          *int       `json:"id_form"`
	Module          ModuleRef  `json:"module"`
}

// Summary projects p onto the listing property set.
func (p Program) Summary() ProgramSummary {
	return ProgramSummary{
		ID:              p.ID,
		ProjectID:       p.ProjectID,
		Title:           p.Title,
		ShortDesc:       p.ShortDesc,
		Image:           p.Image,
		Logo:            p.Logo,
		ModuleID:        p.ModuleID,
		IsActive:        p.IsActive,
		TaxonomyList:    p.TaxonomyList,
		TimestampCreate: p.TimestampCreate,
		TimestampUpdate: p.TimestampUpdate,
		GeometryType:    p.GeometryType,
		FormID:          p.FormID,
		Module:          ModuleRef{ID: p.ModuleID, Name: p.ModuleName},
	}
}

// ProgramDetail is a program with its module and custom form expanded.
type ProgramDetail struct {
	Program
	Module     Module      `json:"module"`
	CustomForm *CustomForm `json:"custom_form"`
}
