// Package overpass locates agricultural supply shops through the public
// OpenStreetMap Overpass API.
package overpass

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	shopTagFilter = `["shop"~"agrarian|farm|garden_centre|agricultural"]`
	nameFilter    = `["name"~"pesticide|fertilizer|fertiliser|agro|agri",i]`

	// resultCap bounds how many raw elements the server returns.
	resultCap = 50
)

// BuildQuery renders the Overpass QL selecting nodes, ways and relations
// within radiusM meters of (lat, lng) that are tagged as farm supply shops
// or whose name mentions fertilizer, pesticide or agro keywords.
func BuildQuery(lat, lng float64, radiusM int) string {
	around := fmt.Sprintf("(around:%d,%s,%s)", radiusM, formatCoord(lat), formatCoord(lng))

	var b strings.Builder
	b.WriteString("[out:json][timeout:10];\n(\n")
	for _, filter := range []string{shopTagFilter, nameFilter} {
		for _, kind := range []string{"node", "way", "relation"} {
			fmt.Fprintf(&b, "  %s%s%s;\n", kind, around, filter)
		}
	}
	fmt.Fprintf(&b, ");\nout center %d;\n", resultCap)
	return b.String()
}

// formatCoord writes plain decimal notation; Overpass QL rejects exponents.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
