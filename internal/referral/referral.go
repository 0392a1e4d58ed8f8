package referral

import (
	"fmt"
	"time"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/cohort"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

type Referral struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	CohortID    string    `json:"cohortId"`
	Note        string    `json:"note,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateReferralRequest struct {
	RecipientID string `json:"recipientId" validate:"required,max=255"`
	CohortID    string `json:"cohortId" validate:"required,uuid"`
	Note        string `json:"note" validate:"max=1000"`
}

// CheckEligibility is the gate every referral passes before it is stored.
// It works only on already-loaded data and has no side effects.
func CheckEligibility(senderID, recipientID string, members []cohort.Member, progress cohort.Progress) error {
	if senderID == recipientID {
		return apperr.Validation("You cannot refer yourself", map[string]any{
			"recipientId": "must differ from the sender",
		})
	}
	if !cohort.HasMember(members, senderID) {
		return apperr.Forbidden("You must be a member of this cohort to send referrals")
	}
	if !cohort.HasMember(members, recipientID) {
		return apperr.Forbidden("Recipient is not a member of this cohort")
	}
	if !cohort.IsReferralEligible(progress.CompletionPercentage) {
		return apperr.Forbidden(fmt.Sprintf(
			"Referrals require at least %d%% cohort completion (current: %d%%)",
			cohort.ReferralThreshold, progress.CompletionPercentage,
		)).WithDetails(map[string]any{
			"requiredPercentage": cohort.ReferralThreshold,
			"currentPercentage":  progress.CompletionPercentage,
		})
	}
	return nil
}
