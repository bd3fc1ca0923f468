package model

import "time"

// Module is a program type ("observations", "sites", ...).
type Module struct {
	ID              int        `json:"id_module"`
	Name            string     `json:"name"`
	Label           string     `json:"label"`
	Description     *string    `json:"desc"`
	Icon            *string    `json:"icon"`
	OnSidebar       bool       `json:"on_sidebar"`
	TimestampCreate *time.Time `json:"timestamp_create"`
	TimestampUpdate *time.Time `json:"timestamp_update"`
}

// ModuleRef is the short module form nested in program features.
type ModuleRef struct {
	ID   int    `json:"id_module"`
	Name string `json:"name"`
}

// ModuleSites is the module whose programs collect site visits.
const ModuleSites = "sites"
