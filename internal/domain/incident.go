package domain

// Column headers read from the incident report sheet.
const (
	ColLatitude    = "LATITUDE"
	ColLongitude   = "LONGITUDE"
	ColDate        = "INCIDENT DATE"
	ColTime        = "INCIDENT TIME"
	ColCategory    = "INCIDENT CATEGORY"
	ColDescription = "INCIDENT DESCRIPTION"
	ColCounty      = "COUNTY"
	ColActors      = "ACTORS"
)

// RawRow is one decoded spreadsheet row keyed by the literal header text.
// A header missing from the map reads as an absent cell.
type RawRow map[string]Cell

// Get returns the cell under header, or an absent cell.
func (r RawRow) Get(header string) Cell {
	return r[header]
}

// Incident is the normalized record persisted to the store.
// Field names are the persisted layout and must not change.
type Incident struct {
	Title       string  `json:"title" db:"title" yaml:"title"`
	Description string  `json:"description" db:"description" yaml:"description"`
	Time        string  `json:"time" db:"time" yaml:"time"`
	Lat         float64 `json:"lat" db:"lat" yaml:"lat"`
	Lon         float64 `json:"lon" db:"lon" yaml:"lon"`
	County      string  `json:"county" db:"county" yaml:"county"`
	Actor       string  `json:"actor" db:"actor" yaml:"actor"`
}
