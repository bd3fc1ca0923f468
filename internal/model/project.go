package model

import "time"

type Project struct {
	ID              int        `json:"id_project"`
	UniqueID        string     `json:"unique_id_project"`
	Name            string     `json:"name"`
	ShortDesc       *string    `json:"short_desc"`
	LongDesc        *string    `json:"long_desc"`
	TimestampCreate *time.Time `json:"timestamp_create"`
	TimestampUpdate *time.Time `json:"timestamp_update"`
}

type ProjectList struct {
	Count int       `json:"count"`
	Items []Project `json:"items"`
}

type ProgramList struct {
	Count int       `json:"count"`
	Items []Program `json:"items"`
}

// ProjectPrograms is a project with all of its programs, active or not.
type ProjectPrograms struct {
	Project
	Programs ProgramList `json:"programs"`
}
