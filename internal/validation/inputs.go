package validation

import (
	"strings"

	"github.com/cci-admin-dashboard/internal/models"
)

// LoginInput is the login form
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

// ReviewDecisionInput approves or rejects one or more contracts
type ReviewDecisionInput struct {
	Action          string `form:"action" validate:"required,oneof=approve reject"`
	RejectionReason string `form:"rejectionReason" validate:"notblank_if=Action reject"`
}

// Review builds the backend payload for userID
func (in ReviewDecisionInput) Review(userID string) models.ContractReview {
	r := models.ContractReview{UserID: userID, Action: in.Action}
	if in.Action == models.ReviewReject {
		r.RejectionReason = strings.TrimSpace(in.RejectionReason)
	}
	return r
}

// TerminateInput is the terminate-contract form
type TerminateInput struct {
	Reason string `form:"reason" validate:"notblank"`
}

// ContractUpdateInput is the update-contract form. Platform names and
// usernames are submitted as parallel repeated fields.
type ContractUpdateInput struct {
	CoveragePeriod    int      `form:"coveragePeriod" validate:"gt=0"`
	MonthlyEarnings   float64  `form:"monthlyEarnings" validate:"gte=0"`
	PlatformNames     []string `form:"platformName" validate:"min=1,dive,notblank"`
	PlatformUsernames []string `form:"platformUsername" validate:"min=1,dive,notblank"`
}

// Update builds the backend payload
func (in ContractUpdateInput) Update() models.ContractUpdate {
	n := len(in.PlatformNames)
	if len(in.PlatformUsernames) < n {
		n = len(in.PlatformUsernames)
	}
	platforms := make([]models.Platform, 0, n)
	for i := 0; i < n; i++ {
		platforms = append(platforms, models.Platform{
			Name:     strings.TrimSpace(in.PlatformNames[i]),
			Username: strings.TrimSpace(in.PlatformUsernames[i]),
		})
	}
	return models.ContractUpdate{
		CoveragePeriod: in.CoveragePeriod,
		PlatformData:   platforms,
		FinancialInfo:  models.FinancialInfo{MonthlyEarnings: in.MonthlyEarnings},
	}
}

// RenewalInput is the renewals form
type RenewalInput struct {
	Action string `form:"action" validate:"required,oneof=remind renew"`
}

// UserUpdateInput is the update-user form
type UserUpdateInput struct {
	FirstName   string `form:"firstName" validate:"notblank"`
	LastName    string `form:"lastName"`
	Email       string `form:"email" validate:"required,email"`
	PhoneNumber string `form:"phoneNumber"`
	Country     string `form:"country"`
	Street      string `form:"street"`
	City        string `form:"city"`
	PostalCode  string `form:"postalCode"`
	Role        string `form:"role" validate:"omitempty,oneof=user admin"`
	IsVerified  bool   `form:"isVerified"`
}

// Update builds the backend payload
func (in UserUpdateInput) Update() models.UserUpdate {
	return models.UserUpdate{
		PersonalInfo: models.PersonalInfo{
			FirstName:   strings.TrimSpace(in.FirstName),
			LastName:    strings.TrimSpace(in.LastName),
			Email:       strings.TrimSpace(in.Email),
			PhoneNumber: in.PhoneNumber,
			Country:     in.Country,
			Address: models.Address{
				Street:     in.Street,
				City:       in.City,
				PostalCode: in.PostalCode,
			},
		},
		IsVerified: in.IsVerified,
		Role:       in.Role,
	}
}

// AdjustmentInput adjusts one premium, or every selected premium
type AdjustmentInput struct {
	AdjustmentPercentage float64 `form:"adjustmentPercentage" validate:"required,gte=-100,lte=100"`
	Reason               string  `form:"reason" validate:"notblank"`
}

// Adjustment builds the single-premium payload
func (in AdjustmentInput) Adjustment() models.PremiumAdjustment {
	return models.PremiumAdjustment{
		AdjustmentPercentage: in.AdjustmentPercentage,
		Reason:               strings.TrimSpace(in.Reason),
	}
}

// BulkItem builds the bulk payload item for premiumID
func (in AdjustmentInput) BulkItem(premiumID string) models.BulkPremiumAdjustment {
	return models.BulkPremiumAdjustment{
		PremiumID:            premiumID,
		AdjustmentPercentage: in.AdjustmentPercentage,
		Reason:               strings.TrimSpace(in.Reason),
	}
}

// ClaimReviewInput reviews one claim, or every selected claim
type ClaimReviewInput struct {
	IsValid      bool    `form:"isValid"`
	Notes        string  `form:"notes" validate:"notblank"`
	PayoutAmount float64 `form:"payoutAmount" validate:"gte=0"`
}

// Review builds the single-claim payload
func (in ClaimReviewInput) Review() models.ClaimReview {
	return models.ClaimReview{
		IsValid:      in.IsValid,
		Notes:        strings.TrimSpace(in.Notes),
		PayoutAmount: in.payout(),
	}
}

// BulkItem builds the bulk payload item for claimID
func (in ClaimReviewInput) BulkItem(claimID string) models.BulkClaimReview {
	return models.BulkClaimReview{
		ClaimID:      claimID,
		IsValid:      in.IsValid,
		Notes:        strings.TrimSpace(in.Notes),
		PayoutAmount: in.payout(),
	}
}

// a rejected claim pays nothing
func (in ClaimReviewInput) payout() float64 {
	if !in.IsValid {
		return 0
	}
	return in.PayoutAmount
}

// FilterInput is the filter bar of every list page and the report form
type FilterInput struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	Platform  string `form:"platform"`
	StartDate string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// Filters returns the filter set. Empty values are kept so that clearing a
// field removes its constraint.
func (in FilterInput) Filters() map[string]string {
	return map[string]string{
		"search":    strings.TrimSpace(in.Search),
		"status":    in.Status,
		"platform":  in.Platform,
		"startDate": in.StartDate,
		"endDate":   in.EndDate,
	}
}

// LimitInput is the page-size selector
type LimitInput struct {
	Limit int `form:"limit" validate:"gt=0,lte=100"`
}
