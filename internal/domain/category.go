package domain

// ServiceCategory selects both the request detail shape and the milestone
// template used when a project is materialized.
type ServiceCategory string

const (
	CategoryManning  ServiceCategory = "manning"
	CategoryOffshore ServiceCategory = "offshore"
	CategoryHSE      ServiceCategory = "hse"
	CategorySupply   ServiceCategory = "supply"
	CategoryWaste    ServiceCategory = "waste"
)

func AllCategories() []ServiceCategory {
	return []ServiceCategory{CategoryManning, CategoryOffshore, CategoryHSE, CategorySupply, CategoryWaste}
}

func (c ServiceCategory) IsValid() bool {
	switch c {
	case CategoryManning, CategoryOffshore, CategoryHSE, CategorySupply, CategoryWaste:
		return true
	default:
		return false
	}
}

// Label is the human-facing service line name used on public surfaces.
func (c ServiceCategory) Label() string {
	switch c {
	case CategoryManning:
		return "Marine Manning Services"
	case CategoryOffshore:
		return "Offshore Technical Services"
	case CategoryHSE:
		return "HSE Consultancy"
	case CategorySupply:
		return "Supply Chain Services"
	case CategoryWaste:
		return "Waste Management Services"
	default:
		return string(c)
	}
}
