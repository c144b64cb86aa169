package benefits

import (
	"fmt"

	"github.com/cardinsa/cardinsa/app/models"
)

// alertThresholds are the notification steps, ascending. 100 marks exhaustion.
var alertThresholds = []int{
	models.ALERT_THRESHOLD_50,
	models.ALERT_THRESHOLD_80,
	models.ALERT_THRESHOLD_90,
	models.ALERT_THRESHOLD_EXHAUSTED,
}

// ReachedThresholds returns the thresholds covered by the given utilization
// percentage. Exhaustion forces the 100 step even when rounding keeps the
// percentage just below it.
func ReachedThresholds(utilizationPct float64, exhausted bool) []int {
	var reached []int
	for _, th := range alertThresholds {
		if utilizationPct >= float64(th) || (exhausted && th == models.ALERT_THRESHOLD_EXHAUSTED) {
			reached = append(reached, th)
		}
	}
	return reached
}

// MissingThresholds returns reached thresholds that have not been alerted yet
func MissingThresholds(reached, alreadySent []int) []int {
	sent := make(map[int]struct{}, len(alreadySent))
	for _, th := range alreadySent {
		sent[th] = struct{}{}
	}
	var missing []int
	for _, th := range reached {
		if _, ok := sent[th]; !ok {
			missing = append(missing, th)
		}
	}
	return missing
}

func alertMessage(usage *models.MemberBenefitUsage, threshold int) string {
	if threshold >= models.ALERT_THRESHOLD_EXHAUSTED {
		return fmt.Sprintf("Benefit %s is exhausted for the current period", usage.BenefitType)
	}
	return fmt.Sprintf("Benefit %s has reached %d%% utilization (%.2f of %.2f)",
		usage.BenefitType, threshold, usage.UsedAmount, usage.BenefitLimit)
}
