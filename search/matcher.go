package search

import (
	"strings"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"golang.org/x/text/cases"
)

// matcher folds names for case-insensitive comparison. A cases.Caser keeps
// state, so each goroutine needs its own matcher.
type matcher struct {
	folder cases.Caser
	needle string
}

func newMatcher(medicineName string) *matcher {
	m := &matcher{folder: cases.Fold()}
	m.needle = m.fold(medicineName)
	return m
}

func (m *matcher) fold(s string) string {
	m.folder.Reset()
	return m.folder.String(s)
}

// matches returns the medicines of store whose name contains the needle,
// in inventory order. Stock and expiry are not considered.
func (m *matcher) matches(store entities.Store) []entities.Medicine {
	var matched []entities.Medicine
	for _, med := range store.Medicines {
		if strings.Contains(m.fold(med.Name), m.needle) {
			matched = append(matched, med)
		}
	}
	return matched
}

// MatchMedicines returns the medicines of store whose name contains the query's
// medicine name as a case-insensitive substring, preserving inventory order.
// The result is empty when nothing matches.
func MatchMedicines(query entities.SearchQuery, store entities.Store) []entities.Medicine {
	return newMatcher(query.MedicineName).matches(store)
}
