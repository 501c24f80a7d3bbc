package models

// ClaimStatus is the closed status set of a claim
type ClaimStatus string

const (
	ClaimStatusSubmitted ClaimStatus = "Submitted"
	ClaimStatusApproved  ClaimStatus = "Approved"
	ClaimStatusRejected  ClaimStatus = "Rejected"
	ClaimStatusPaid      ClaimStatus = "Paid"
)

// ClaimDetails holds what the creator reported
type ClaimDetails struct {
	UserID        string  `json:"userId"`
	Platform      string  `json:"platform"`
	IncidentType  string  `json:"incidentType,omitempty"`
	Description   string  `json:"description,omitempty"`
	ClaimedAmount float64 `json:"claimedAmount,omitempty"`
}

// StatusChange is one entry of a claim's status history
type StatusChange struct {
	Status    string `json:"status"`
	ChangedAt string `json:"changedAt,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// StatusHistory wraps the status changes of a claim
type StatusHistory struct {
	History []StatusChange `json:"history"`
}

// EvidenceFile is an uploaded evidence document
type EvidenceFile struct {
	URL         string `json:"url"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	UploadedAt  string `json:"uploadedAt,omitempty"`
}

// Evidence is the evidence bundle of a claim
type Evidence struct {
	Files           []EvidenceFile   `json:"files"`
	AffectedContent []map[string]any `json:"affectedContent"`
}

// AIAnalysis is the backend's automated evaluation
type AIAnalysis struct {
	IsValid         bool     `json:"isValid"`
	ConfidenceScore float64  `json:"confidenceScore"`
	Reasons         []string `json:"reasons"`
}

// ManualReview is an administrator's review decision
type ManualReview struct {
	IsValid bool   `json:"isValid"`
	Notes   string `json:"notes"`
}

// Evaluation holds the automated and manual evaluation of a claim
type Evaluation struct {
	AIAnalysis   *AIAnalysis   `json:"aiAnalysis,omitempty"`
	ManualReview *ManualReview `json:"manualReview,omitempty"`
	PayoutAmount float64       `json:"payoutAmount,omitempty"`
}

// Claim is a row of the claims table and the payload of the single-claim endpoint
type Claim struct {
	ID                 string        `json:"_id"`
	ClaimDetails       ClaimDetails  `json:"claimDetails"`
	StatusHistory      StatusHistory `json:"statusHistory"`
	ResolutionDeadline string        `json:"resolutionDeadline,omitempty"`
	Evidence           *Evidence     `json:"evidence,omitempty"`
	Evaluation         *Evaluation   `json:"evaluation,omitempty"`
}

// Status is the latest entry of the status history, or "" when empty
func (c Claim) Status() string {
	if n := len(c.StatusHistory.History); n > 0 {
		return c.StatusHistory.History[n-1].Status
	}
	return ""
}

// ClaimReview is the body of a single manual review
type ClaimReview struct {
	IsValid      bool    `json:"isValid"`
	Notes        string  `json:"notes"`
	PayoutAmount float64 `json:"payoutAmount"`
}

// BulkClaimReview is one item of a bulk review
type BulkClaimReview struct {
	ClaimID      string  `json:"claimId"`
	IsValid      bool    `json:"isValid"`
	Notes        string  `json:"notes"`
	PayoutAmount float64 `json:"payoutAmount"`
}

// HighRiskCreator is flagged by the claims analytics
type HighRiskCreator struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name,omitempty"`
	ClaimCount int     `json:"claimCount"`
	RiskScore  float64 `json:"riskScore,omitempty"`
}

// ClaimHistory is the payload of the claim history endpoint
type ClaimHistory struct {
	History struct {
		StatusChanges []StatusChange `json:"statusChanges"`
	} `json:"history"`
}

// ClaimActions lists the mutations available for a claim in its current status
type ClaimActions struct {
	Evaluate bool
	Audit    bool
	MarkPaid bool
}

// Actions returns the mutations the claim's status allows: evaluate only
// while Submitted, audit unless Paid, mark paid only once Approved.
func (c Claim) Actions() ClaimActions {
	status := ClaimStatus(c.Status())
	return ClaimActions{
		Evaluate: status == ClaimStatusSubmitted,
		Audit:    status != ClaimStatusPaid,
		MarkPaid: status == ClaimStatusApproved,
	}
}
