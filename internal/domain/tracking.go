package domain

// TrackingView is the sanitized public projection of a project. It must never
// carry the internal project id, the client identity, or the contract value.
type TrackingView struct {
	ID          string          `json:"id"` // the tracking code echoed back
	Status      string          `json:"status"`
	Category    ServiceCategory `json:"category"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Vessel      string          `json:"vessel"`
	ETA         string          `json:"eta"` // YYYY-MM-DD or "TBD"
	Progress    int             `json:"progress"`
	Events      []TrackingEvent `json:"events"`
}

type TrackingEvent struct {
	Date      string `json:"date"`
	Location  string `json:"location"`
	Status    string `json:"status"` // milestone name
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}
