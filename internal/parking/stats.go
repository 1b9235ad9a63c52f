package parking

import "github.com/sheet4riders/DataNantes/internal/opendata"

// Stats summarizes city-wide occupancy for the sidebar. It is computed
// over the availability feeds rather than the merged records, so facilities
// whose name fails the join still count toward the totals.
type Stats struct {
	Facilities      int     `json:"facilities"`
	AvailableSpaces int     `json:"available_spaces"`
	TotalSpaces     int     `json:"total_spaces"`
	OccupancyRate   float64 `json:"occupancy_rate"`
}

// ComputeStats aggregates both availability feeds.
func ComputeStats(feeds opendata.Feeds) Stats {
	var s Stats

	for _, a := range feeds.LotAvailability {
		s.Facilities++
		s.AvailableSpaces += a.Available
		s.TotalSpaces += a.Total
	}
	for _, a := range feeds.ParkRideAvailability {
		s.Facilities++
		s.AvailableSpaces += a.Available
		s.TotalSpaces += a.Capacity
	}

	if s.TotalSpaces > 0 {
		s.OccupancyRate = 100 - float64(s.AvailableSpaces)/float64(s.TotalSpaces)*100
	}

	return s
}
