// Package geojson assembles the GeoJSON documents served by the API.
package geojson

import (
	"encoding/json"
	"errors"
	"fmt"

	"gncitizen/internal/model"
)

const (
	TypeFeature           = "Feature"
	TypeFeatureCollection = "FeatureCollection"
)

var nullGeometry = json.RawMessage("null")

// Feature is a GeoJSON feature. Type and Geometry are omitted for
// geometry-less listings so that clients can tell "not requested" from
// "no geometry" (which is encoded as null).
type Feature struct {
	Type       string                 `json:"type,omitempty"`
	Geometry   json.RawMessage        `json:"geometry,omitempty"`
	Properties interface{}            `json:"properties"`
	SiteTypes  []model.SiteTypeOption `json:"site_types,omitempty"`
}

// FeatureCollection carries a count next to the features.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	Count    int       `json:"count"`
}

// NewFeatureCollection wraps features; Count always equals len(Features).
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{
		Type:     TypeFeatureCollection,
		Features: features,
		Count:    len(features),
	}
}

// NewProgramFeature builds the listing feature of p. The geometry is only
// attached when withGeom is set.
func NewProgramFeature(p model.Program, withGeom bool) Feature {
	f := Feature{Properties: p.Summary()}
	if withGeom {
		f.Type = TypeFeature
		f.Geometry = geometryOrNull(p.Geometry)
	}
	return f
}

// NewProgramDetailFeature builds the feature of a single program with its
// module and custom form expanded.
func NewProgramDetailFeature(d model.ProgramDetail, siteTypes []model.SiteTypeOption) Feature {
	f := Feature{
		Type:       TypeFeature,
		Geometry:   geometryOrNull(d.Geometry),
		Properties: d,
	}
	if d.Module.Name == model.ModuleSites {
		if siteTypes == nil {
			siteTypes = []model.SiteTypeOption{}
		}
		f.SiteTypes = siteTypes
	}
	return f
}

func geometryOrNull(g json.RawMessage) json.RawMessage {
	if len(g) == 0 {
		return nullGeometry
	}
	return g
}

// ImportFeature is one feature of an uploaded collection.
type ImportFeature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// ImportCollection is an uploaded FeatureCollection.
type ImportCollection struct {
	Type     string          `json:"type"`
	Features []ImportFeature `json:"features"`
}

var ErrInvalidCollection = errors.New("invalid GeoJSON feature collection")

// ParseCollection decodes and validates an uploaded FeatureCollection.
func ParseCollection(data []byte) (*ImportCollection, error) {
	var fc ImportCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	if fc.Type != TypeFeatureCollection {
		return nil, fmt.Errorf("%w: type is %q", ErrInvalidCollection, fc.Type)
	}
	for i, f := range fc.Features {
		if f.Type != TypeFeature {
			return nil, fmt.Errorf("%w: feature %d has type %q", ErrInvalidCollection, i, f.Type)
		}
		if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
			return nil, fmt.Errorf("%w: feature %d has no geometry", ErrInvalidCollection, i)
		}
	}
	return &fc, nil
}

// PropertyString returns the named property rendered as a string, or false
// when it is missing or null.
func (f ImportFeature) PropertyString(name string) (string, bool) {
	v, ok := f.Properties[name]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		return fmt.Sprintf("%v", t), true
	default:
		return fmt.Sprint(t), true
	}
}
