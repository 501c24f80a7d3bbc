package models

import (
	"bytes"
	"encoding/json"
)

// PremiumStatus is the payment status of a premium
type PremiumStatus string

const (
	PremiumStatusPending PremiumStatus = "Pending"
	PremiumStatusPaid    PremiumStatus = "Paid"
	PremiumStatusOverdue PremiumStatus = "Overdue"
)

// PremiumUser is the (optionally populated) owner of a premium. The backend
// sends either the bare user id or the populated user document.
type PremiumUser struct {
	ID           string       `json:"_id"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
}

// UnmarshalJSON accepts a string id or a user object
func (u *PremiumUser) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &u.ID)
	}
	type plain PremiumUser
	return json.Unmarshal(data, (*plain)(u))
}

// PremiumDetails holds the computed premium
type PremiumDetails struct {
	UserID          PremiumUser `json:"userId"`
	FinalPercentage float64     `json:"finalPercentage"`
	FinalAmount     float64     `json:"finalAmount"`
}

// PaymentStatus holds the payment state of a premium
type PaymentStatus struct {
	Status  string `json:"status"`
	DueDate string `json:"dueDate,omitempty"`
}

// Premium is a row of the premiums table
type Premium struct {
	ID             string         `json:"_id"`
	PremiumDetails PremiumDetails `json:"premiumDetails"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus"`
}

// PremiumAdjustment is the body of a single adjustment
type PremiumAdjustment struct {
	AdjustmentPercentage float64 `json:"adjustmentPercentage"`
	Reason               string  `json:"reason"`
}

// BulkPremiumAdjustment is one item of a bulk adjustment
type BulkPremiumAdjustment struct {
	PremiumID            string  `json:"premiumId"`
	AdjustmentPercentage float64 `json:"adjustmentPercentage"`
	Reason               string  `json:"reason"`
}

// PremiumHistoryEntry is one adjustment or payment event of a premium
type PremiumHistoryEntry struct {
	Type       string  `json:"type"`
	Amount     float64 `json:"amount,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Date       string  `json:"date"`
}

// AuditResult is one per-item outcome of an AI audit
type AuditResult struct {
	ID       string         `json:"id"`
	Success  bool           `json:"success"`
	Error    string         `json:"error,omitempty"`
	Findings map[string]any `json:"audit,omitempty"`
}

// UnmarshalJSON accepts premiumId/claimId as the id key
func (a *AuditResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string         `json:"id"`
		PremiumID string         `json:"premiumId"`
		ClaimID   string         `json:"claimId"`
		Success   bool           `json:"success"`
		Error     string         `json:"error"`
		Audit     map[string]any `json:"audit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Success, a.Error, a.Findings = raw.Success, raw.Error, raw.Audit
	for _, id := range []string{raw.ID, raw.PremiumID, raw.ClaimID} {
		if id != "" {
			a.ID = id
			break
		}
	}
	return nil
}
