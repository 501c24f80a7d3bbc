package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

var usersView = listView{
	Entity:   service.EntityUsers,
	Title:    "Users",
	Template: "users.html",
	KPIs: map[string]string{
		"totalUsers":                   "Total users",
		"verifiedUsers":                "Verified users",
		"totalClaims":                  "Total claims",
		"approvedClaims":               "Approved claims",
		"avgApplicationProcessingTime": "Avg. processing time",
	},
	Charts: []chartDef{
		{Title: "Insurance status", Key: "statusBreakdown", Field: "count"},
		{Title: "Users by platform", Key: "platformBreakdown", Field: "userCount"},
	},
}

// UsersPage handles GET / and GET /users
func (h *Handler) UsersPage(c *gin.Context) {
	renderList(h, c, workspace(c).Users, usersView)
}

// UserPage handles GET /users/:id
func (h *Handler) UserPage(c *gin.Context) {
	view := workspace(c).UserView(c.Param("id"))
	renderDetail(h, c, view, service.EntityUsers, "User", "user.html", nil)
}

// UpdateUser handles POST /users/:id/update
func (h *Handler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var in validation.UserUpdateInput
	err := bind(c, &in)
	if err == nil {
		err = workspace(c).UpdateUser(c.Request.Context(), id, in)
	}
	h.done(c, "/users/"+id, err)
}

// DeactivateUser handles POST /users/:id/deactivate
func (h *Handler) DeactivateUser(c *gin.Context) {
	id := c.Param("id")
	h.done(c, "/users/"+id, workspace(c).DeactivateUser(c.Request.Context(), id))
}
