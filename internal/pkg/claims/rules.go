package claims

import "github.com/cardinsa/cardinsa/app/models"

// Auto-approval cutoffs. Claims at or under the amount limit with a fraud
// score under the max are approved without human review, provided the
// policy is active.
const (
	AutoApproveAmountLimit   = 5000.0
	AutoApproveFraudScoreMax = 0.3
)

// CanAutoApprove applies the auto-approval rule to a claim and the status
// of its policy. It never mutates anything.
func CanAutoApprove(claim *models.Claim, policyStatus string) bool {
	if claim.ClaimAmount > AutoApproveAmountLimit {
		return false
	}
	if claim.FraudScore >= AutoApproveFraudScoreMax {
		return false
	}
	return policyStatus == models.POLICY_STATUS_ACTIVE
}
