package parking

import (
	"fmt"
	"strings"
)

// FormatRecords renders records as the markdown shown in chat when the
// fallback search answers.
func FormatRecords(records []Record) string {
	var b strings.Builder

	for _, r := range records {
		fmt.Fprintf(&b, "### %s (%s)\n\n", r.Name, r.Kind)

		if av := r.Availability; av != nil {
			fmt.Fprintf(&b, "**Disponibilité**: %d/%d places\n", av.AvailableSpaces, av.TotalSpaces)
			if update := formatLastUpdate(av.LastUpdate); update != "" {
				fmt.Fprintf(&b, "*Mise à jour: %s*\n", update)
			}
		}

		address := r.Address
		if address == "" {
			address = "Non précisée"
		}
		fmt.Fprintf(&b, "**Adresse**: %s\n\n", address)

		for _, f := range r.Details.fields() {
			if f.value != "" {
				fmt.Fprintf(&b, "- **%s**: %s\n", f.label, f.value)
			}
		}

		b.WriteString("\n---\n\n")
	}

	return b.String()
}

// formatLastUpdate turns an ISO timestamp like 2024-05-01T10:00:00+02:00
// into "2024-05-01 à 10:00:00". Anything without a date/time separator is
// dropped rather than guessed at.
func formatLastUpdate(ts string) string {
	date, rest, ok := strings.Cut(ts, "T")
	if !ok {
		return ""
	}
	clock, _, _ := strings.Cut(rest, "+")
	clock = strings.TrimSuffix(clock, "Z")
	return fmt.Sprintf("%s à %s", date, clock)
}
