package models

import "strconv"

// ContractStatus is the closed status set of an insurance contract
type ContractStatus string

const (
	ContractStatusPending     ContractStatus = "Pending"
	ContractStatusApproved    ContractStatus = "Approved"
	ContractStatusRejected    ContractStatus = "Rejected"
	ContractStatusSurrendered ContractStatus = "Surrendered"
)

// Review actions accepted by the contract review endpoints
const (
	ReviewApprove = "approve"
	ReviewReject  = "reject"
)

// Renewal actions
const (
	RenewalRemind = "remind"
	RenewalRenew  = "renew"
)

// Platform is a creator's content platform account
type Platform struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	AudienceSize int    `json:"audienceSize,omitempty"`
}

// Contract is a row of the contracts table
type Contract struct {
	UserID          string          `json:"userId"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	InsuranceStatus InsuranceStatus `json:"insuranceStatus"`
	Platforms       []Platform      `json:"platforms"`
	ClaimsCount     int             `json:"claimsCount"`
}

// FinancialInfo holds a creator's declared earnings
type FinancialInfo struct {
	MonthlyEarnings float64 `json:"monthlyEarnings"`
}

// PlatformInfo wraps the platforms of a contract
type PlatformInfo struct {
	Platforms []Platform `json:"platforms"`
}

// ContractDetails is the payload of the single-contract endpoint
type ContractDetails struct {
	UserID          string          `json:"userId"`
	PersonalInfo    PersonalInfo    `json:"personalInfo"`
	InsuranceStatus InsuranceStatus `json:"insuranceStatus"`
	PlatformInfo    PlatformInfo    `json:"platformInfo"`
	FinancialInfo   FinancialInfo   `json:"financialInfo"`
}

// ContractHistoryEntry is one status change of a contract
type ContractHistoryEntry struct {
	Status string `json:"status"`
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

// ContractRenewal is one renewal of a contract
type ContractRenewal struct {
	Date           string `json:"date"`
	CoveragePeriod int    `json:"coveragePeriod"`
}

// ContractHistory is the payload of the contract history endpoint
type ContractHistory struct {
	StatusChanges []ContractHistoryEntry `json:"statusChanges"`
	Renewals      []ContractRenewal      `json:"renewals"`
}

// ContractEvent is one row of the merged history table
type ContractEvent struct {
	Type    string
	Status  string
	Date    string
	Details string
}

// Events merges status changes and renewals, status changes first
func (h ContractHistory) Events() []ContractEvent {
	events := make([]ContractEvent, 0, len(h.StatusChanges)+len(h.Renewals))
	for _, c := range h.StatusChanges {
		details := c.Reason
		if details == "" {
			details = "-"
		}
		events = append(events, ContractEvent{Type: "Status Change", Status: c.Status, Date: c.Date, Details: details})
	}
	for _, r := range h.Renewals {
		events = append(events, ContractEvent{
			Type:    "Renewed",
			Status:  "Renewed",
			Date:    r.Date,
			Details: strconv.Itoa(r.CoveragePeriod) + " months",
		})
	}
	return events
}

// ContractAnalysis carries AI insights for a contract
type ContractAnalysis struct {
	AIInsights struct {
		Insights []string `json:"insights"`
	} `json:"aiInsights"`
}

// ContractReview is the body of a single review and one item of a bulk review
type ContractReview struct {
	UserID          string `json:"userId"`
	Action          string `json:"action"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// ContractUpdate is the body of PUT /admin-insurance/admin/contract/:id
type ContractUpdate struct {
	CoveragePeriod int           `json:"coveragePeriod"`
	PlatformData   []Platform    `json:"platformData"`
	FinancialInfo  FinancialInfo `json:"financialInfo"`
}

// RenewalRequest is the body of POST /admin-insurance/admin/renewals
type RenewalRequest struct {
	UserIDs []string `json:"userIds"`
	Action  string   `json:"action"`
}
