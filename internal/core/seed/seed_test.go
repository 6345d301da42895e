package seed

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogue = `{
  "services": [
    {"key": "oil", "name": "Oil change"},
    {"key": "brakes", "name": "Brake pads", "status": "waiting"}
  ],
  "garages": [
    {"key": "deusto", "name": "Taller Deusto", "location": "Deusto, Bilbao",
     "latitude": 43.271, "longitude": -2.948, "capacity": 4,
     "opening_hours": {"open": 8, "close": 18}, "services": ["oil", "brakes"]},
    {"key": "equator", "name": "Null Island Motors", "location": "Gulf of Guinea",
     "latitude": 0, "longitude": 0, "services": ["oil"]},
    {"key": "unplaced", "name": "Mobile Mechanic", "location": "Anywhere",
     "is_active": false, "services": []}
  ]
}`

func TestBuild(t *testing.T) {
	f, err := Decode(strings.NewReader(catalogue))
	require.NoError(t, err)

	plan, err := Build(f)
	require.NoError(t, err)

	require.Len(t, plan.Services, 2)
	assert.Equal(t, "accepted", plan.Services[0].Status)
	assert.Equal(t, "waiting", plan.Services[1].Status)

	require.Len(t, plan.Garages, 3)
	deusto, equator, unplaced := plan.Garages[0], plan.Garages[1], plan.Garages[2]

	require.NotNil(t, deusto.Coordinates)
	assert.Equal(t, 43.271, deusto.Coordinates.Latitude)
	assert.True(t, deusto.IsActive)
	assert.ElementsMatch(t, []string{ID("service", "oil"), ID("service", "brakes")}, plan.Links[deusto.ID])

	require.NotNil(t, equator.Coordinates, "0,0 is a real position")
	assert.Zero(t, equator.Coordinates.Latitude)

	assert.Nil(t, unplaced.Coordinates)
	assert.False(t, unplaced.IsActive)
	assert.Empty(t, plan.Links[unplaced.ID])
}

func TestBuild_StableIDs(t *testing.T) {
	build := func() *Plan {
		f, err := Decode(strings.NewReader(catalogue))
		require.NoError(t, err)
		plan, err := Build(f)
		require.NoError(t, err)
		return plan
	}

	a, b := build(), build()
	assert.Equal(t, a.Garages[0].ID, b.Garages[0].ID)
	assert.Equal(t, ID("garage", "deusto"), a.Garages[0].ID)
	assert.NotEqual(t, ID("garage", "oil"), ID("service", "oil"))
}

func TestBuild_ExplicitID(t *testing.T) {
	plan, err := Build(&File{Services: []ServiceEntry{
		{Key: "oil", ID: "6F1C2F6E-6A53-4B8E-9D4C-1F2E3D4C5B6A", Name: "Oil change"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "6f1c2f6e-6a53-4b8e-9d4c-1f2e3d4c5b6a", plan.Services[0].ID)
}

func TestBuild_ReportsEveryProblem(t *testing.T) {
	lat := 43.0
	badLat := 123.0
	lon := -2.9

	_, err := Build(&File{
		Services: []ServiceEntry{
			{Key: "oil", Name: "Oil change"},
			{Key: "oil", Name: "Again"},
			{Key: "tyres", ID: "not-a-uuid", Name: "Tyres"},
		},
		Garages: []GarageEntry{
			{Key: "half", Name: "Half", Latitude: &lat},
			{Key: "far", Name: "Far", Latitude: &badLat, Longitude: &lon},
			{Key: "ghost", Name: "Ghost", Services: []string{"paint"}},
			{Key: "", Name: "Nameless key"},
		},
	})
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		`duplicate key "oil"`,
		`id "not-a-uuid" is not a UUID`,
		"latitude and longitude must be given together",
		"latitude must be a number",
		`unknown service "paint"`,
		"garages[3]: key is required",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"garages": [{"key": "a", "lat": 1}]}`))
	assert.Error(t, err)
}

func TestBuild_ExampleCatalogue(t *testing.T) {
	f, err := os.Open("../../../configs/catalog.example.json")
	require.NoError(t, err)
	defer f.Close()

	file, err := Decode(f)
	require.NoError(t, err)
	plan, err := Build(file)
	require.NoError(t, err)
	assert.Len(t, plan.Garages, 3)
	assert.Nil(t, plan.Garages[2].Coordinates)
}
