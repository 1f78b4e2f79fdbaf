package geo

import (
	"regexp"
	"strconv"
	"strings"
)

// Map-sharing link parsing. Each URL encoding gets its own pattern matcher;
// matchers are tried in order and the first hit wins, so adding a new format
// is a one-line change.

type linkMatcher struct {
	name string
	re   *regexp.Regexp
}

var linkMatchers = []linkMatcher{
	{name: "q-param", re: regexp.MustCompile(`[?&]q=(-?\d+\.?\d*),(-?\d+\.?\d*)`)},
	{name: "ll-param", re: regexp.MustCompile(`[?&]ll=(-?\d+\.?\d*),(-?\d+\.?\d*)`)},
	{name: "center-param", re: regexp.MustCompile(`[?&]center=(-?\d+\.?\d*),(-?\d+\.?\d*)`)},
	{name: "at-path", re: regexp.MustCompile(`@(-?\d+\.?\d*),(-?\d+\.?\d*)`)},
	{name: "embed-3d4d", re: regexp.MustCompile(`!3d(-?\d+\.?\d*)!4d(-?\d+\.?\d*)`)},
}

// ExtractFromMapLink attempts to pull a coordinate out of a map-sharing URL.
//
// Shortened share links (maps.app.goo.gl) cannot be resolved without
// following the redirect, so they return the default center; this is a
// documented limitation. A URL that is recognizably a Maps link but matches
// no known encoding also returns the default center (best effort). A string
// that is not a Maps URL at all returns nil.
func ExtractFromMapLink(link string) *Coordinate {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}

	if strings.Contains(link, "maps.app.goo.gl") {
		c := DefaultCenter

		return &c
	}

	for _, m := range linkMatchers {
		groups := m.re.FindStringSubmatch(link)
		if len(groups) != 3 {
			continue
		}

		lat, err1 := strconv.ParseFloat(groups[1], 64)
		lng, err2 := strconv.ParseFloat(groups[2], 64)

		if err1 != nil || err2 != nil {
			continue
		}

		c := Coordinate{Lat: lat, Lng: lng}
		if !c.Valid() {
			continue
		}

		return &c
	}

	if strings.Contains(link, "google.com/maps") || strings.Contains(link, "goo.gl/maps") {
		c := DefaultCenter

		return &c
	}

	return nil
}
