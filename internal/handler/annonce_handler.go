package handler

import (
	"net/http"
	"strconv"

	"immo/backend/internal/auth"
	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// LikeResponse is the like state of a listing for the caller.
type LikeResponse struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// endregion

// ListAnnonces godoc
// @Summary      Search listings
// @Description  Active listings, newest first.
// @Tags         annonces
// @Produce      json
// @Param        ville         query string false "City"
// @Param        type          query string false "Property type"
// @Param        q             query string false "Text in title or description"
// @Param        onlyCourtiers query bool   false "Public view, active listings only" default(true)
// @Success      200 {array} store.AnnonceView
// @Router       /annonces [get]
func ListAnnonces(c *gin.Context) {
	f := store.AnnonceFilter{
		Ville:  c.Query("ville"),
		Type:   c.Query("type"),
		Search: c.Query("q"),
	}
	if raw, ok := c.GetQuery("onlyCourtiers"); ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.OnlyCourtiers = &v
		}
	}

	list, err := stores().Annonces.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetAnnonce godoc
// @Summary      Get a listing
// @Tags         annonces
// @Produce      json
// @Param        id path string true "Annonce ID"
// @Success      200 {object} store.AnnonceView
// @Failure      404 {object} ErrorResponse
// @Router       /annonces/{id} [get]
func GetAnnonce(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := stores().Annonces.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAnnonce godoc
// @Summary      Publish a listing
// @Tags         annonces
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body store.AnnonceInput true "Listing"
// @Success      201 {object} store.AnnonceView
// @Failure      403 {object} ErrorResponse "Only courtiers can publish"
// @Router       /annonces [post]
func CreateAnnonce(c *gin.Context) {
	var input store.AnnonceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := stores().Annonces.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// UpdateAnnonce godoc
// @Summary      Edit a listing (owner or admin)
// @Tags         annonces
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string             true "Annonce ID"
// @Param        input body store.AnnonceInput true "Listing"
// @Success      200 {object} store.AnnonceView
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /annonces/{id} [put]
func UpdateAnnonce(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input store.AnnonceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := stores().Annonces.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAnnonce godoc
// @Summary      Delete a listing (owner or admin)
// @Tags         annonces
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Annonce ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /annonces/{id} [delete]
func DeleteAnnonce(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := stores().Annonces.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCourtierAnnonces godoc
// @Summary      Active listings of a courtier
// @Tags         annonces
// @Produce      json
// @Param        id path string true "Courtier ID"
// @Success      200 {array} store.AnnonceView
// @Router       /courtiers/{id}/annonces [get]
func ListCourtierAnnonces(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := stores().Annonces.ByCourtier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func likeState(c *gin.Context, annonceID uuid.UUID, liked bool) {
	count, err := stores().Likes.Count(c.Request.Context(), annonceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LikeResponse{Liked: liked, Count: count})
}

// ToggleLike godoc
// @Summary      Like or unlike a listing
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Annonce ID"
// @Success      200 {object} LikeResponse
// @Router       /annonces/{id}/like [post]
func ToggleLike(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := stores().Annonces.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce not found"})
		return
	}

	liked, err := stores().Likes.Toggle(c.Request.Context(), s.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	likeState(c, id, liked)
}

// GetLikes godoc
// @Summary      Like count of a listing
// @Description  Also tells whether the caller liked it when a token is sent.
// @Tags         likes
// @Produce      json
// @Param        id path string true "Annonce ID"
// @Success      200 {object} LikeResponse
// @Router       /annonces/{id}/likes [get]
func GetLikes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	liked := false
	if s, ok := auth.CurrentSession(c); ok {
		var err error
		liked, err = stores().Likes.HasLiked(c.Request.Context(), s.UserID, id)
		if err != nil {
			respondError(c, err)
			return
		}
	}
	likeState(c, id, liked)
}

// ListFavoris godoc
// @Summary      My liked listings
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} store.AnnonceView
// @Router       /me/favoris [get]
func ListFavoris(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	list, err := stores().Annonces.LikedBy(c.Request.Context(), s.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
