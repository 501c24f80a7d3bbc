package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

var claimsView = listView{
	Entity:   service.EntityClaims,
	Title:    "Claims",
	Template: "claims.html",
	KPIs: map[string]string{
		"totalClaims":         "Total claims",
		"averagePayout":       "Average payout",
		"rejectionRate":       "Rejection rate",
		"averageAIConfidence": "Avg. AI confidence",
	},
	Charts: []chartDef{
		{Title: "Claim status", Key: "statusBreakdown", Field: "count"},
		{Title: "Claims by platform", Key: "platformBreakdown", Field: "count"},
		{Title: "Incident types", Key: "incidentTypeBreakdown", Field: "count"},
	},
}

// ClaimsPage handles GET /claims
func (h *Handler) ClaimsPage(c *gin.Context) {
	renderList(h, c, workspace(c).Claims, claimsView)
}

// ClaimPage handles GET /claims/:id
func (h *Handler) ClaimPage(c *gin.Context) {
	id := c.Param("id")
	ws := workspace(c)
	extra := map[string]any{}
	if audit, ok := ws.ClaimAudit(id); ok {
		extra["Audit"] = audit
	}
	renderDetail(h, c, ws.ClaimView(id), service.EntityClaims, "Claim", "claim.html", extra)
}

// ReviewClaim handles POST /claims/:id/review
func (h *Handler) ReviewClaim(c *gin.Context) {
	id := c.Param("id")
	var in validation.ClaimReviewInput
	err := bind(c, &in)
	if err == nil {
		err = workspace(c).ReviewClaim(c.Request.Context(), id, in)
	}
	h.done(c, "/claims/"+id, err)
}

// EvaluateClaim handles POST /claims/:id/evaluate
func (h *Handler) EvaluateClaim(c *gin.Context) {
	id := c.Param("id")
	h.claimAction(c, id, workspace(c).EvaluateClaim(c.Request.Context(), id))
}

// MarkClaimPaid handles POST /claims/:id/mark-paid
func (h *Handler) MarkClaimPaid(c *gin.Context) {
	id := c.Param("id")
	h.claimAction(c, id, workspace(c).MarkClaimPaid(c.Request.Context(), id))
}

// AuditClaim handles POST /claims/:id/audit
func (h *Handler) AuditClaim(c *gin.Context) {
	id := c.Param("id")
	h.claimAction(c, id, workspace(c).AuditClaim(c.Request.Context(), id))
}

// claimAction lands back on the claim. A refused action was already
// reported by its form.
func (h *Handler) claimAction(c *gin.Context, id string, err error) {
	h.done(c, "/claims/"+id, err)
}

// BulkReviewClaims handles POST /claims/bulk-review
func (h *Handler) BulkReviewClaims(c *gin.Context) {
	var in validation.ClaimReviewInput
	if err := bind(c, &in); err != nil {
		h.done(c, "/claims", err)
		return
	}
	out, err := workspace(c).BulkReviewClaims(c.Request.Context(), in)
	h.bulkDone(c, "/claims", out, err)
}

// AuditClaims handles POST /claims/audit
func (h *Handler) AuditClaims(c *gin.Context) {
	out, err := workspace(c).AuditClaims(c.Request.Context())
	h.bulkDone(c, "/claims", out, err)
}
