package validation

import (
	"strings"
	"time"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
)

// maxListedIDs caps the id lists kept in a quality report
const maxListedIDs = 10

// CatalogValidator inspects catalog snapshots before they are published
type CatalogValidator struct {
	now func() time.Time
}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() *CatalogValidator {
	return &CatalogValidator{now: time.Now}
}

// Sanitize returns the stores that can safely be searched along with a report
// of every issue found. Stores with out-of-range coordinates and medicines without
// a name are dropped; everything else, including zero-stock and expired items,
// is kept and only counted.
func (v *CatalogValidator) Sanitize(stores []entities.Store) ([]entities.Store, *interfaces.DataQualityReport) {
	report := &interfaces.DataQualityReport{
		DuplicateStoreIDs:         []string{},
		InvalidLocationStoreIDs:   []string{},
		DuplicateMedicineIDs:      []string{},
		UnnamedMedicineStoreIDs:   []string{},
		NegativeStockMedicineIDs:  []string{},
		InvalidPriceMedicineIDs:   []string{},
		TotalStores:               len(stores),
	}

	today := v.now()
	seenStores := make(map[string]bool, len(stores))
	seenMedicines := make(map[string]bool)
	valid := make([]entities.Store, 0, len(stores))

	for _, store := range stores {
		if seenStores[store.ID] {
			report.DuplicateStoreIDs = appendCapped(report.DuplicateStoreIDs, store.ID)
		}
		seenStores[store.ID] = true

		// Out-of-range coordinates are rejected, never clamped
		if !store.Location.Valid() {
			report.StoresWithInvalidLocation++
			report.InvalidLocationStoreIDs = appendCapped(report.InvalidLocationStoreIDs, store.ID)
			continue
		}

		medicines := make([]entities.Medicine, 0, len(store.Medicines))
		for _, med := range store.Medicines {
			if strings.TrimSpace(med.Name) == "" {
				report.UnnamedMedicines++
				report.UnnamedMedicineStoreIDs = appendCapped(report.UnnamedMedicineStoreIDs, store.ID)
				continue
			}

			if med.ID != "" {
				if seenMedicines[med.ID] {
					report.DuplicateMedicineIDs = appendCapped(report.DuplicateMedicineIDs, med.ID)
				}
				seenMedicines[med.ID] = true
			}

			switch {
			case med.Stock < 0:
				report.NegativeStockMedicineIDs = appendCapped(report.NegativeStockMedicineIDs, med.ID)
			case med.Stock == 0:
				report.ZeroStockMedicines++
			}

			if med.Price <= 0 {
				report.InvalidPriceMedicineIDs = appendCapped(report.InvalidPriceMedicineIDs, med.ID)
			}

			if med.ExpiryDate.ExpiredAt(today) {
				report.ExpiredMedicines++
			}

			medicines = append(medicines, med)
		}

		store.Medicines = medicines
		report.TotalMedicines += len(medicines)
		valid = append(valid, store)
	}

	report.ValidStores = len(valid)
	return valid, report
}

func appendCapped(ids []string, id string) []string {
	if len(ids) >= maxListedIDs {
		return ids
	}
	return append(ids, id)
}
