package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safereport/safereport-api/geo"
)

func TestParsePointEWKT(t *testing.T) {
	lon, lat, ok := geo.ParsePoint("SRID=4326;POINT(-122.4194 37.7749)")

	assert.True(t, ok)
	assert.Equal(t, -122.4194, lon)
	assert.Equal(t, 37.7749, lat)
}

func TestParsePointBareWKT(t *testing.T) {
	lon, lat, ok := geo.ParsePoint("POINT(-122.4194 37.7749)")

	assert.True(t, ok)
	assert.Equal(t, -122.4194, lon)
	assert.Equal(t, 37.7749, lat)
}

func TestParsePointGarbage(t *testing.T) {
	lon, lat, ok := geo.ParsePoint("not a point")

	assert.False(t, ok)
	assert.Equal(t, float64(0), lon)
	assert.Equal(t, float64(0), lat)
}

func TestFormatPointRoundTrip(t *testing.T) {
	wkt := geo.FormatPoint(-122.4194, 37.7749)
	assert.Equal(t, "SRID=4326;POINT(-122.4194 37.7749)", wkt)

	lon, lat, ok := geo.ParsePoint(wkt)
	assert.True(t, ok)
	assert.Equal(t, -122.4194, lon)
	assert.Equal(t, 37.7749, lat)
}

func TestMapsLink(t *testing.T) {
	link := geo.MapsLink(37.7749, -122.4194)
	assert.Equal(t, "https://www.google.com/maps?q=37.7749,-122.4194", link)
}
