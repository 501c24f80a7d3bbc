package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

var premiumsView = listView{
	Entity:   service.EntityPremiums,
	Title:    "Premiums",
	Template: "premiums.html",
	KPIs: map[string]string{
		"totalPremiums":    "Total premiums",
		"totalRevenue":     "Total revenue",
		"overdueCount":     "Overdue",
		"retrySuccessRate": "Retry success rate",
	},
	Charts: []chartDef{
		{Title: "Payment status", Key: "statusBreakdown", Field: "count"},
		{Title: "Premiums by platform", Key: "platformPremiums", Field: "totalAmount"},
	},
}

// PremiumsPage handles GET /premiums
func (h *Handler) PremiumsPage(c *gin.Context) {
	renderList(h, c, workspace(c).Premiums, premiumsView)
}

// PremiumPage handles GET /premiums/:id
func (h *Handler) PremiumPage(c *gin.Context) {
	view := workspace(c).PremiumView(c.Param("id"))
	renderDetail(h, c, view, service.EntityPremiums, "Premium", "premium.html", nil)
}

// AdjustPremium handles POST /premiums/:id/adjust
func (h *Handler) AdjustPremium(c *gin.Context) {
	id := c.Param("id")
	var in validation.AdjustmentInput
	err := bind(c, &in)
	if err == nil {
		err = workspace(c).AdjustPremium(c.Request.Context(), id, in)
	}
	h.done(c, "/premiums/"+id, err)
}

// RetryPayment handles POST /premiums/:id/retry
func (h *Handler) RetryPayment(c *gin.Context) {
	id := c.Param("id")
	h.done(c, backTo(c, "/premiums"), workspace(c).RetryPayment(c.Request.Context(), id))
}

// BulkAdjustPremiums handles POST /premiums/bulk-adjust
func (h *Handler) BulkAdjustPremiums(c *gin.Context) {
	var in validation.AdjustmentInput
	if err := bind(c, &in); err != nil {
		h.done(c, "/premiums", err)
		return
	}
	out, err := workspace(c).BulkAdjustPremiums(c.Request.Context(), in)
	h.bulkDone(c, "/premiums", out, err)
}

// AuditPremiums handles POST /premiums/audit
func (h *Handler) AuditPremiums(c *gin.Context) {
	out, err := workspace(c).AuditPremiums(c.Request.Context())
	h.bulkDone(c, "/premiums", out, err)
}

// SendReminders handles POST /premiums/reminders
func (h *Handler) SendReminders(c *gin.Context) {
	out, err := workspace(c).SendReminders(c.Request.Context())
	h.bulkDone(c, "/premiums", out, err)
}
