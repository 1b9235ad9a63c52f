package parking

import (
	"fmt"
	"strings"
)

// maxSearchResults caps the fallback answer length.
const maxSearchResults = 5

// Search returns records whose name, address or kind contains the query,
// case-insensitively. When nothing matches it falls back to records that
// currently have free spaces.
func Search(query string, records []Record) []Record {
	query = strings.ToLower(query)

	var results []Record
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), query) ||
			strings.Contains(strings.ToLower(r.Address), query) ||
			strings.Contains(strings.ToLower(string(r.Kind)), query) {
			results = append(results, r)
		}
	}

	if len(results) == 0 {
		for _, r := range records {
			if r.Availability != nil && r.Availability.AvailableSpaces > 0 {
				results = append(results, r)
			}
		}
	}

	return results
}

// FallbackAnswer runs the keyword search and formats the result. It is the
// answer path used when the remote LLM call fails or no API key is set.
func FallbackAnswer(query string, records []Record) string {
	if len(records) == 0 {
		return "Aucune donnée de parking disponible pour la recherche."
	}

	results := Search(query, records)
	if len(results) == 0 {
		return fmt.Sprintf("Aucun parking trouvé pour '%s'. Essayez avec d'autres termes comme 'centre-ville', 'gare', ou un nom de quartier.", query)
	}

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return FormatRecords(results)
}
