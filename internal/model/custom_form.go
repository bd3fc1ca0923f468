package model

import (
	"encoding/json"
	"time"
)

// CustomForm is a JSON-schema driven observation form attached to programs.
type CustomForm struct {
	ID              int             `json:"id_form"`
	Name            string          `json:"name"`
	JSONSchema      json.RawMessage `json:"json_schema"`
	TimestampCreate *time.Time      `json:"timestamp_create"`
	TimestampUpdate *time.Time      `json:"timestamp_update"`
}
