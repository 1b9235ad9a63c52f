package parking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRecords(t *testing.T) {
	records := []Record{{
		Name:    "Parking Gare",
		Kind:    KindPublicLot,
		Address: "5 rue de la Gare",
		Details: Details{
			Tariff1h:     "2.5",
			WeekSchedule: "24h/24",
		},
		Availability: &Availability{
			AvailableSpaces: 50,
			TotalSpaces:     100,
			LastUpdate:      "2024-05-01T10:00:00+02:00",
		},
	}}

	out := FormatRecords(records)

	assert.Contains(t, out, "### Parking Gare (Parking public)")
	assert.Contains(t, out, "**Disponibilité**: 50/100 places")
	assert.Contains(t, out, "*Mise à jour: 2024-05-01 à 10:00:00*")
	assert.Contains(t, out, "**Adresse**: 5 rue de la Gare")
	assert.Contains(t, out, "- **Tarif 1h**: 2.5")
	assert.Contains(t, out, "- **Horaires semaine**: 24h/24")
	assert.NotContains(t, out, "Tarif 2h")
}

func TestFormatRecordsMissingAddress(t *testing.T) {
	out := FormatRecords([]Record{{Name: "Parking Commerce", Kind: KindPublicLot}})
	assert.Contains(t, out, "**Adresse**: Non précisée")
	assert.NotContains(t, out, "Disponibilité")
}

func TestFormatLastUpdate(t *testing.T) {
	assert.Equal(t, "2024-05-01 à 10:00:00", formatLastUpdate("2024-05-01T10:00:00+02:00"))
	assert.Equal(t, "2024-05-01 à 08:00:00", formatLastUpdate("2024-05-01T08:00:00Z"))
	assert.Empty(t, formatLastUpdate("pas une date"))
	assert.Empty(t, formatLastUpdate(""))
}
