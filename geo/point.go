package geo

import (
	"fmt"
	"regexp"
	"strconv"
)

// Different write paths in the system have produced both EWKT
// (SRID=4326;POINT(lon lat)) and bare WKT (POINT(lon lat)) encodings, so
// the parser has to tolerate both rather than assume one.
var (
	ewktPointRe = regexp.MustCompile(`SRID=\d+;POINT\((-?\d+\.?\d*) (-?\d+\.?\d*)\)`)
	wktPointRe  = regexp.MustCompile(`POINT\((-?\d+\.?\d*) (-?\d+\.?\d*)\)`)
)

// ParsePoint extracts longitude and latitude from a stored point. Unparseable
// input yields (0, 0) and ok=false; callers treat the zero point as "no fix".
func ParsePoint(wkt string) (lon, lat float64, ok bool) {
	matches := ewktPointRe.FindStringSubmatch(wkt)
	if matches == nil {
		matches = wktPointRe.FindStringSubmatch(wkt)
	}
	if matches == nil {
		return 0, 0, false
	}
	lon, _ = strconv.ParseFloat(matches[1], 64)
	lat, _ = strconv.ParseFloat(matches[2], 64)
	return lon, lat, true
}

// FormatPoint renders a PostGIS-compatible EWKT point, longitude first
func FormatPoint(lon, lat float64) string {
	return fmt.Sprintf("SRID=4326;POINT(%s %s)",
		strconv.FormatFloat(lon, 'f', -1, 64),
		strconv.FormatFloat(lat, 'f', -1, 64))
}

// MapsLink builds a google maps link from raw coordinates, used in SOS
// SMS bodies
func MapsLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))
}
