package model

import "encoding/json"

type SiteType struct {
	ID       int     `json:"id_typesite"`
	Category *string `json:"category"`
	Type     string  `json:"type"`
}

// SiteTypeOption is the select-list form of a site type.
type SiteTypeOption struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type Site struct {
	ID        int             `json:"id_site"`
	UniqueID  string          `json:"unique_id_site"`
	ProgramID int             `json:"id_program"`
	Name      string          `json:"name"`
	TypeID    *int            `json:"id_type"`
	Geometry  json.RawMessage `json:"geometry"`
}
