package entities

// SearchQuery is a validated proximity search request. Build it through the
// validation package; the core assumes every field is already in range.
type SearchQuery struct {
	MedicineName      string     `json:"medicineName"`
	Origin            Coordinate `json:"origin"`
	MaxDistanceMeters float64    `json:"maxDistanceMeters"`
}

// SearchResult is a store within range that stocks at least one matching medicine
type SearchResult struct {
	Store            StoreSummary `json:"store"`
	MatchedMedicines []Medicine   `json:"matchedMedicines"`
	DistanceMeters   float64      `json:"distanceMeters"`
}
