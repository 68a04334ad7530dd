package optimizer

import "github.com/CielmobilityWorks/route-optimization-tools/internal/domain"

// distanceFallbackSpec builds the "objective setup failed, retry with
// distance" spec used by the two-step algorithm §4.1/§9 require: on
// solver error, fall back to a distance-primary objective and record
// it in metadata rather than raising.
func distanceFallbackSpec() domain.ObjectiveSpec {
	return domain.ObjectiveSpec{Primary: domain.ObjectiveDistance}
}
