package handler

import (
	"net/http"
	"strconv"
	"time"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"
	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RoleInput changes a profile's role.
type RoleInput struct {
	Role models.Role `json:"role" binding:"required,oneof=client courtier admin" example:"courtier"`
}

// StatusInput changes a listing's status.
type StatusInput struct {
	Status models.AnnonceStatus `json:"status" binding:"required" example:"archived"`
}

// endregion

// periodStart reads ?days= (default 30) and returns the start of that window.
func periodStart(c *gin.Context, def int) (time.Time, int) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(def)))
	if err != nil || days < 1 || days > 365 {
		days = def
	}
	return time.Now().AddDate(0, 0, -days), days
}

// ListUsers godoc
// @Summary      List profiles (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role  query string false "Role filter"
// @Param        q     query string false "Name or email"
// @Param        page  query int    false "Page number" default(1)
// @Param        limit query int    false "Items per page" default(20)
// @Success      200 {object} PaginatedResponse[store.ProfileView]
// @Router       /admin/users [get]
func ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := stores().Profiles.ListAll(c.Request.Context(), store.UserFilter{
		Role:   models.Role(c.Query("role")),
		Search: c.Query("q"),
	}, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(res))
}

// UpdateUserRole godoc
// @Summary      Change a profile's role (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string    true "Profile ID"
// @Param        input body RoleInput true "Role"
// @Success      200 {object} store.ProfileView
// @Router       /admin/users/{id}/role [put]
func UpdateUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := stores().Profiles.UpdateRole(c.Request.Context(), id, input.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListAllAnnonces godoc
// @Summary      Every listing whatever its status (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "active, inactive or archived"
// @Param        ville  query string false "City"
// @Param        q      query string false "Text in title or description"
// @Success      200 {array} store.AnnonceView
// @Router       /admin/annonces [get]
func ListAllAnnonces(c *gin.Context) {
	list, err := stores().Annonces.List(c.Request.Context(), store.AnnonceFilter{
		Ville:              c.Query("ville"),
		Type:               c.Query("type"),
		Search:             c.Query("q"),
		Status:             models.AnnonceStatus(c.Query("status")),
		IncludeAllStatuses: true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateAnnonceStatus godoc
// @Summary      Moderate a listing (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string      true "Annonce ID"
// @Param        input body StatusInput true "Status"
// @Success      200 {object} store.AnnonceView
// @Failure      400 {object} ErrorResponse "Invalid status"
// @Router       /admin/annonces/{id}/status [put]
func UpdateAnnonceStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := stores().Annonces.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GetAdminStats godoc
// @Summary      Platform statistics (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Window in days" default(30)
// @Success      200 {object} store.AdminStats
// @Router       /admin/stats [get]
func GetAdminStats(c *gin.Context) {
	since, _ := periodStart(c, 30)
	stats, err := stores().Stats.Admin(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDashboardStats godoc
// @Summary      My courtier dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Window in days" default(7)
// @Success      200 {object} store.CourtierStats
// @Router       /dashboard/stats [get]
func GetDashboardStats(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	since, days := periodStart(c, 7)
	stats, err := stores().Stats.Courtier(c.Request.Context(), s.UserID, since, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
