package models

import "encoding/json"

// BulkResult is one per-item outcome of a bulk endpoint
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// UnmarshalJSON accepts the entity-specific id keys older endpoints return
// (claimId, userId, premiumId) in addition to id.
func (r *BulkResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string `json:"id"`
		ClaimID   string `json:"claimId"`
		UserID    string `json:"userId"`
		PremiumID string `json:"premiumId"`
		Success   bool   `json:"success"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Success = raw.Success
	r.Error = raw.Error
	for _, id := range []string{raw.ID, raw.ClaimID, raw.UserID, raw.PremiumID} {
		if id != "" {
			r.ID = id
			break
		}
	}
	return nil
}

// BulkResponse is the response envelope of every bulk endpoint
type BulkResponse struct {
	Data []BulkResult `json:"data"`
}
