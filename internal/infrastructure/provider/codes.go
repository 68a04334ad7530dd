package provider

import "github.com/CielmobilityWorks/route-optimization-tools/internal/domain"

// SearchOptionCode maps the domain's SearchOption to the provider's
// bit-exact integer wire code (§6).
func SearchOptionCode(o domain.SearchOption) int {
	switch o {
	case domain.SearchRecommended:
		return 0
	case domain.SearchFreeRoads:
		return 1
	case domain.SearchFastest:
		return 2
	case domain.SearchBeginner:
		return 3
	case domain.SearchTruck:
		return 17
	default:
		return 0
	}
}

// CarTypeCode maps the domain's VehicleClass to the provider's
// bit-exact integer wire code (§6).
func CarTypeCode(c domain.VehicleClass) int {
	switch c {
	case domain.VehicleClassPassenger:
		return 1
	case domain.VehicleClassMidVan:
		return 2
	case domain.VehicleClassLargeVan:
		return 3
	case domain.VehicleClassLargeTruck:
		return 4
	case domain.VehicleClassSpecialTruck:
		return 5
	default:
		return 1
	}
}
