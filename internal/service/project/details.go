package project

import (
	"encoding/json"
	"time"

	"irs-portal/internal/domain"
)

// startDateFromDetails pulls the requested start date out of the category
// payload when the shape carries one, falling back to today. Due dates and
// the projected end date are anchored here.
func startDateFromDetails(details domain.RequestDetails) time.Time {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	switch d := details.(type) {
	case *domain.OffshoreDetails:
		if d.StartDate != nil && !d.StartDate.IsZero() {
			return d.StartDate.Time
		}
	case *domain.HSEDetails:
		if d.StartDate != nil && !d.StartDate.IsZero() {
			return d.StartDate.Time
		}
	}
	return today
}

// metadataFromDetails builds the project metadata bag. Only supply requests
// carry one: the delivery location becomes the shipment destination shown on
// the public tracking page. Origin and vessel are filled in by staff later.
func metadataFromDetails(details domain.RequestDetails) json.RawMessage {
	d, ok := details.(*domain.SupplyDetails)
	if !ok {
		return nil
	}

	meta, err := json.Marshal(domain.SupplyMetadata{Destination: d.Location})
	if err != nil {
		return nil
	}
	return meta
}
