package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

var contractsView = listView{
	Entity:   service.EntityContracts,
	Title:    "Contracts",
	Template: "contracts.html",
	KPIs: map[string]string{
		"totalApplications":   "Total applications",
		"activeContracts":     "Active contracts",
		"totalClaims":         "Total claims",
		"pendingApplications": "Pending applications",
		"totalPremiumRevenue": "Premium revenue",
	},
	Charts: []chartDef{
		{Title: "Contracts by platform", Key: "platformBreakdown", Field: "count"},
	},
}

// ContractsPage handles GET /contracts
func (h *Handler) ContractsPage(c *gin.Context) {
	renderList(h, c, workspace(c).Contracts, contractsView)
}

// ContractPage handles GET /contracts/:id, keyed by the creator's user ID
func (h *Handler) ContractPage(c *gin.Context) {
	view := workspace(c).ContractView(c.Param("id"))
	renderDetail(h, c, view, service.EntityContracts, "Contract", "contract.html", nil)
}

// ChangeContractStatus handles POST /contracts/:id/status
func (h *Handler) ChangeContractStatus(c *gin.Context) {
	id := c.Param("id")
	var in validation.ReviewDecisionInput
	err := bind(c, &in)
	if err == nil {
		err = workspace(c).ChangeContractStatus(c.Request.Context(), id, in)
	}
	h.done(c, "/contracts/"+id, err)
}

// UpdateContract handles POST /contracts/:id/update
func (h *Handler) UpdateContract(c *gin.Context) {
	id := c.Param("id")
	var in validation.ContractUpdateInput
	err := bind(c, &in)
	if err == nil {
		err = workspace(c).UpdateContract(c.Request.Context(), id, in)
	}
	h.done(c, "/contracts/"+id, err)
}

// TerminateContract handles POST /contracts/:id/terminate. A terminated
// contract's page is closed, so success lands on the list.
func (h *Handler) TerminateContract(c *gin.Context) {
	id := c.Param("id")
	var in validation.TerminateInput
	err := bind(c, &in)
	if err == nil {
		err = workspace(c).TerminateContract(c.Request.Context(), id, in)
	}
	back := "/contracts"
	if err != nil {
		back += "/" + id
	}
	h.done(c, back, err)
}

// BulkReviewContracts handles POST /contracts/bulk-review
func (h *Handler) BulkReviewContracts(c *gin.Context) {
	var in validation.ReviewDecisionInput
	if err := bind(c, &in); err != nil {
		h.done(c, "/contracts", err)
		return
	}
	out, err := workspace(c).BulkReviewContracts(c.Request.Context(), in)
	h.bulkDone(c, "/contracts", out, err)
}

// ManageRenewals handles POST /contracts/renewals
func (h *Handler) ManageRenewals(c *gin.Context) {
	var in validation.RenewalInput
	if err := bind(c, &in); err != nil {
		h.done(c, "/contracts", err)
		return
	}
	out, err := workspace(c).ManageRenewals(c.Request.Context(), in)
	h.bulkDone(c, "/contracts", out, err)
}
