package services

import (
	"strings"

	"absensi/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/unicode/norm"
)

const maxNameDistance = 2

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(norm.NFC.String(s))))
}

func nameDistance(a, b string) int {
	return levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

// matchesOwner reports whether query matches the record owner's name or
// email, ignoring accents and tolerating small typos per name token.
func matchesOwner(record models.Attendance, query string) bool {
	if record.User == nil {
		return false
	}
	name := normalizeName(record.User.Name)
	email := strings.ToLower(record.User.Email)
	if strings.Contains(name, query) || strings.Contains(email, query) {
		return true
	}
	if len([]rune(query)) <= maxNameDistance {
		return false
	}
	for _, token := range strings.Fields(name) {
		if nameDistance(token, query) <= maxNameDistance {
			return true
		}
	}
	return false
}

// FilterByOwner keeps records whose owner matches query, preserving order.
func FilterByOwner(records []models.Attendance, query string) []models.Attendance {
	q := normalizeName(query)
	if q == "" {
		return records
	}
	filtered := make([]models.Attendance, 0, len(records))
	for _, rec := range records {
		if matchesOwner(rec, q) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
