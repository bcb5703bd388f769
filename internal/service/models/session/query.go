package session

// QuerySessionsModel represents filter parameters for querying sessions.
type QuerySessionsModel struct {
	Ids         []string `json:"ids,omitempty"`
	CatalogRefs []string `json:"catalogRefs,omitempty"`
	RoomNumber  string   `json:"roomNumber,omitempty"`
	ActiveOnly  bool     `json:"activeOnly,omitempty"`
}
