package domain

import "slices"

// Location identifies a place by city and country name. Both are free-form.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Query returns the upstream query term, "{city},{country}".
func (l Location) Query() string {
	return l.City + "," + l.Country
}

// Country groups the selectable cities of one country.
type Country struct {
	Name   string
	Cities []string
}

// LocationTable is an ordered list of selectable countries.
type LocationTable []Country

// DefaultLocations is the table offered by the web form.
var DefaultLocations = LocationTable{
	{Name: "Polska", Cities: []string{"Warszawa", "Kraków", "Gdańsk"}},
	{Name: "Niemcy", Cities: []string{"Berlin", "Munich", "Hamburg"}},
	{Name: "USA", Cities: []string{"New York", "Chicago", "San Francisco"}},
}

// Contains reports whether loc names a city listed under its country.
// Matching is exact.
func (t LocationTable) Contains(loc Location) bool {
	for _, c := range t {
		if c.Name == loc.Country {
			return slices.Contains(c.Cities, loc.City)
		}
	}
	return false
}

// Countries returns the country names in table order.
func (t LocationTable) Countries() []string {
	names := make([]string, len(t))
	for i, c := range t {
		names[i] = c.Name
	}
	return names
}
