// Package parking holds the unified parking record model and the
// transforms over it: merging the availability and info feeds, formatting
// records for display and the keyword fallback search.
package parking

// Kind distinguishes the two facility families.
type Kind string

const (
	KindPublicLot   Kind = "Parking public"
	KindParkAndRide Kind = "Parc relais"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Availability is the live occupancy attached to a record when the
// availability feed has a row with the same name.
type Availability struct {
	AvailableSpaces int    `json:"places_disponibles"`
	TotalSpaces     int    `json:"places_totales"`
	Status          string `json:"statut,omitempty"`
	LastUpdate      string `json:"derniere_mise_a_jour,omitempty"`
}

// Details carries the static per-facility attributes. Lots and
// park-and-rides populate different subsets; empty fields are omitted.
type Details struct {
	Tariff1h        string `json:"tarif_1h,omitempty"`
	Tariff2h        string `json:"tarif_2h,omitempty"`
	MaxHeight       string `json:"hauteur_max,omitempty"`
	AccessibleSpots string `json:"nb_pmr,omitempty"`
	EVSpots         string `json:"nb_voitures_electriques,omitempty"`
	WeekSchedule    string `json:"horaires_semaine,omitempty"`
	SundaySchedule  string `json:"horaires_dimanche,omitempty"`
	Capacity        string `json:"capacite,omitempty"`
	ExtraInfo       string `json:"info_complementaires,omitempty"`
	TramLine        string `json:"ligne_tram,omitempty"`
}

// detailField pairs a display label with a value, in the order the
// formatter and the LLM payload present them.
type detailField struct {
	label string
	value string
}

func (d Details) fields() []detailField {
	return []detailField{
		{"Tarif 1h", d.Tariff1h},
		{"Tarif 2h", d.Tariff2h},
		{"Hauteur max", d.MaxHeight},
		{"Nb pmr", d.AccessibleSpots},
		{"Nb voitures electriques", d.EVSpots},
		{"Horaires semaine", d.WeekSchedule},
		{"Horaires dimanche", d.SundaySchedule},
		{"Capacite", d.Capacity},
		{"Info complementaires", d.ExtraInfo},
		{"Ligne tram", d.TramLine},
	}
}

// Record is the unified parking record handed to the LLM and the frontend.
// JSON keys stay French: the system prompt and the UI both speak French.
type Record struct {
	Name         string        `json:"nom"`
	Kind         Kind          `json:"type"`
	Address      string        `json:"adresse"`
	Coordinates  Coordinates   `json:"coordonnees"`
	Details      Details       `json:"infos"`
	Availability *Availability `json:"disponibilite,omitempty"`
}
