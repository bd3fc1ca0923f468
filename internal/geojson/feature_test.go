package geojson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gncitizen/internal/model"
)

func TestNewFeatureCollection(t *testing.T) {
	fc := NewFeatureCollection(nil)
	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[],"count":0}`, string(data))

	fc = NewFeatureCollection([]Feature{{Properties: 1}, {Properties: 2}})
	assert.Equal(t, 2, fc.Count)
}

func TestNewProgramFeature(t *testing.T) {
	p := model.Program{
		ID:         4,
		ProjectID:  1,
		Title:      "Hedgehogs",
		ModuleID:   2,
		ModuleName: "observations",
		IsActive:   true,
		Geometry:   json.RawMessage(`{"type":"Point","coordinates":[1,2]}`),
	}

	plain, err := json.Marshal(NewProgramFeature(p, false))
	require.NoError(t, err)
	var withoutGeom map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(plain, &withoutGeom))
	assert.NotContains(t, withoutGeom, "geometry")
	assert.NotContains(t, withoutGeom, "type")

	located, err := json.Marshal(NewProgramFeature(p, true))
	require.NoError(t, err)
	var withGeom map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(located, &withGeom))
	assert.JSONEq(t, `"Feature"`, string(withGeom["type"]))
	assert.JSONEq(t, `{"type":"Point","coordinates":[1,2]}`, string(withGeom["geometry"]))
	assert.JSONEq(t, string(withoutGeom["properties"]), string(withGeom["properties"]))

	var props map[string]interface{}
	require.NoError(t, json.Unmarshal(withGeom["properties"], &props))
	assert.Equal(t, map[string]interface{}{"id_module": float64(2), "name": "observations"}, props["module"])
	assert.Contains(t, props, "id_form")
	assert.NotContains(t, props, "long_desc")

	p.Geometry = nil
	missing, err := json.Marshal(NewProgramFeature(p, true))
	require.NoError(t, err)
	assert.Contains(t, string(missing), `"geometry":null`)
}

func TestNewProgramDetailFeature(t *testing.T) {
	d := model.ProgramDetail{
		Program: model.Program{ID: 9, Title: "Ponds"},
		Module:  model.Module{ID: 3, Name: model.ModuleSites},
	}

	f := NewProgramDetailFeature(d, nil)
	assert.Equal(t, TypeFeature, f.Type)
	assert.Equal(t, "null", string(f.Geometry))
	assert.NotNil(t, f.SiteTypes)
	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"site_types":[]`)

	d.Module.Name = "observations"
	f = NewProgramDetailFeature(d, []model.SiteTypeOption{{Value: 1, Text: "pond"}})
	assert.Nil(t, f.SiteTypes)
}

func TestParseCollection(t *testing.T) {
	fc, err := ParseCollection([]byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [0, 0]}, "properties": {"name": "a", "code": 12}}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	name, ok := fc.Features[0].PropertyString("name")
	assert.True(t, ok)
	assert.Equal(t, "a", name)

	code, ok := fc.Features[0].PropertyString("code")
	assert.True(t, ok)
	assert.Equal(t, "12", code)

	_, ok = fc.Features[0].PropertyString("missing")
	assert.False(t, ok)

	empty, err := ParseCollection([]byte(`{"type":"FeatureCollection","features":[]}`))
	require.NoError(t, err)
	assert.Empty(t, empty.Features)
}

func TestParseCollection_Invalid(t *testing.T) {
	for name, data := range map[string]string{
		"not json":      `{`,
		"wrong type":    `{"type":"Feature"}`,
		"feature type":  `{"type":"FeatureCollection","features":[{"type":"Point"}]}`,
		"null geometry": `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":null}]}`,
		"no geometry":   `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{}}]}`,
	} {
		_, err := ParseCollection([]byte(data))
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidCollection), name)
	}
}
