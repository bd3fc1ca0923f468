package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// nullTime scans a nullable timestamp into a *time.Time. SQLite may hand
// timestamps back as text, so strings are parsed too.
type nullTime struct {
	dst **time.Time
}

func (n nullTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*n.dst = nil
		return nil
	case time.Time:
		*n.dst = &v
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (n nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*n.dst = &t
			return nil
		}
	}
	return fmt.Errorf("unparsable timestamp %q", s)
}

// rawJSON turns a nullable JSON text column into a RawMessage; NULL or an
// empty string becomes nil. Text that is not JSON is rejected so it never
// reaches a response encoder.
func rawJSON(column string, s *string) (json.RawMessage, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if !json.Valid([]byte(*s)) {
		return nil, fmt.Errorf("%s holds invalid JSON", column)
	}
	return json.RawMessage(*s), nil
}
