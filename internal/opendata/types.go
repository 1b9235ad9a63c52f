package opendata

// Dataset identifiers on the Nantes Métropole open-data platform.
const (
	DatasetLotAvailability      = "244400404_parkings-publics-nantes-disponibilites"
	DatasetParkRideAvailability = "244400404_parcs-relais-nantes-metropole-disponibilites"
	DatasetLotInfo              = "244400404_parkings-publics-nantes"
	DatasetParkRideInfo         = "244400404_parcs-relais-nantes-metropole"
)

// LotAvailability is one row of the public-lot availability dataset.
type LotAvailability struct {
	Name       string `json:"grp_nom"`
	Available  int    `json:"grp_disponible"`
	Total      int    `json:"grp_exploitation"`
	Status     int    `json:"grp_statut"`
	LastUpdate string `json:"grp_horodatage"`
}

// ParkRideAvailability is one row of the park-and-ride availability dataset.
type ParkRideAvailability struct {
	Name       string `json:"libelle"`
	Available  int    `json:"disponible"`
	Capacity   int    `json:"capacite"`
	LastUpdate string `json:"lastupdate"`
}

// LotInfo is one row of the public-lot metadata dataset.
type LotInfo struct {
	Name            string  `json:"nom"`
	Address         string  `json:"adresse"`
	Lat             float64 `json:"location_lat"`
	Lon             float64 `json:"location_lon"`
	Tariff1h        float64 `json:"tarif_1h"`
	Tariff2h        float64 `json:"tarif_2h"`
	MaxHeight       string  `json:"hauteur_max"`
	AccessibleSpots int     `json:"nb_pmr"`
	EVSpots         int     `json:"nb_voitures_electriques"`
	WeekSchedule    string  `json:"horaires_semaine"`
	SundaySchedule  string  `json:"horaires_dimanche"`
}

// GeoPoint is the platform's 2D coordinate object.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParkRideInfo is one row of the park-and-ride metadata dataset.
type ParkRideInfo struct {
	Name            string   `json:"libelle"`
	Address         string   `json:"adresse"`
	Location        GeoPoint `json:"geo_point_2d"`
	Capacity        int      `json:"capacite"`
	AccessibleSpots int      `json:"capacite_pmr"`
	ExtraInfo       string   `json:"info_complementaires"`
	TramLine        string   `json:"ligne_tram"`
}

// Feeds bundles one fetch of all four datasets. A dataset that failed to
// fetch is present as an empty slice.
type Feeds struct {
	LotAvailability      []LotAvailability
	ParkRideAvailability []ParkRideAvailability
	LotInfo              []LotInfo
	ParkRideInfo         []ParkRideInfo
}
