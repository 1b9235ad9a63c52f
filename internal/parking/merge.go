package parking

import (
	"encoding/json"
	"strconv"

	"github.com/sheet4riders/DataNantes/internal/opendata"
)

// NoDataMessage is returned in place of the JSON payload when no feed
// produced any record.
const NoDataMessage = "Aucune donnée de parking disponible."

// Merge joins the availability feeds onto the info feeds by exact name.
// Info rows are the base: every named info row yields exactly one record,
// availability rows without a matching info row are dropped, and rows with
// an empty name are dropped silently.
func Merge(feeds opendata.Feeds) []Record {
	lotAvail := make(map[string]*Availability, len(feeds.LotAvailability))
	for _, a := range feeds.LotAvailability {
		if a.Name == "" {
			continue
		}
		av := &Availability{
			AvailableSpaces: a.Available,
			TotalSpaces:     a.Total,
			LastUpdate:      a.LastUpdate,
		}
		if a.Status != 0 {
			av.Status = strconv.Itoa(a.Status)
		}
		lotAvail[a.Name] = av
	}

	parkRideAvail := make(map[string]*Availability, len(feeds.ParkRideAvailability))
	for _, a := range feeds.ParkRideAvailability {
		if a.Name == "" {
			continue
		}
		parkRideAvail[a.Name] = &Availability{
			AvailableSpaces: a.Available,
			TotalSpaces:     a.Capacity,
			LastUpdate:      a.LastUpdate,
		}
	}

	records := make([]Record, 0, len(feeds.LotInfo)+len(feeds.ParkRideInfo))

	for _, info := range feeds.LotInfo {
		if info.Name == "" {
			continue
		}
		records = append(records, Record{
			Name:        info.Name,
			Kind:        KindPublicLot,
			Address:     info.Address,
			Coordinates: Coordinates{Lat: info.Lat, Lon: info.Lon},
			Details: Details{
				Tariff1h:        formatAmount(info.Tariff1h),
				Tariff2h:        formatAmount(info.Tariff2h),
				MaxHeight:       info.MaxHeight,
				AccessibleSpots: formatCount(info.AccessibleSpots),
				EVSpots:         formatCount(info.EVSpots),
				WeekSchedule:    info.WeekSchedule,
				SundaySchedule:  info.SundaySchedule,
			},
			Availability: lotAvail[info.Name],
		})
	}

	for _, info := range feeds.ParkRideInfo {
		if info.Name == "" {
			continue
		}
		records = append(records, Record{
			Name:        info.Name,
			Kind:        KindParkAndRide,
			Address:     info.Address,
			Coordinates: Coordinates{Lat: info.Location.Lat, Lon: info.Location.Lon},
			Details: Details{
				Capacity:        formatCount(info.Capacity),
				AccessibleSpots: formatCount(info.AccessibleSpots),
				ExtraInfo:       info.ExtraInfo,
				TramLine:        info.TramLine,
			},
			Availability: parkRideAvail[info.Name],
		})
	}

	return records
}

// Payload renders the merged records as the indented JSON block embedded
// in the LLM system prompt.
func Payload(records []Record) string {
	if len(records) == 0 {
		return NoDataMessage
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return NoDataMessage
	}
	return string(data)
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatCount(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
