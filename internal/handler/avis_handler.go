package handler

import (
	"net/http"

	"immo/backend/internal/auth"
	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// AvisInput is a review posted on a listing.
type AvisInput struct {
	Note        int    `json:"note" binding:"required,min=1,max=5" example:"4"`
	Commentaire string `json:"commentaire" binding:"required" example:"Très bon accueil"`
}

// AvisListResponse is the reviews of a listing or courtier with their mean note.
type AvisListResponse struct {
	Average float64          `json:"average"`
	Count   int              `json:"count"`
	Avis    []store.AvisView `json:"avis"`
}

// endregion

func avisList(c *gin.Context, list []store.AvisView, average float64) {
	c.JSON(http.StatusOK, AvisListResponse{Average: average, Count: len(list), Avis: list})
}

// ListAnnonceAvis godoc
// @Summary      Reviews of a listing
// @Tags         avis
// @Produce      json
// @Param        id path string true "Annonce ID"
// @Success      200 {object} AvisListResponse
// @Router       /annonces/{id}/avis [get]
func ListAnnonceAvis(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s := stores().Avis
	list, err := s.ForAnnonce(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	avg, err := s.AverageForAnnonce(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	avisList(c, list, avg)
}

// ListCourtierAvis godoc
// @Summary      Reviews across a courtier's listings
// @Tags         avis
// @Produce      json
// @Param        id path string true "Courtier ID"
// @Success      200 {object} AvisListResponse
// @Router       /courtiers/{id}/avis [get]
func ListCourtierAvis(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s := stores().Avis
	list, err := s.ForCourtier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	avg, err := s.AverageForCourtier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	avisList(c, list, avg)
}

// CreateAvis godoc
// @Summary      Review a listing
// @Description  One review per user and listing.
// @Tags         avis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string    true "Annonce ID"
// @Param        input body AvisInput true "Review"
// @Success      201 {object} store.AvisView
// @Failure      409 {object} ErrorResponse "Already reviewed"
// @Router       /annonces/{id}/avis [post]
func CreateAvis(c *gin.Context) {
	if _, ok := auth.CurrentSession(c); !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input AvisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := stores()
	a, err := st.Annonces.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce not found"})
		return
	}

	avis, err := st.Avis.Add(c.Request.Context(), store.AvisInput{
		AnnonceID:   a.ID,
		CourtierID:  a.CreatedBy,
		Note:        input.Note,
		Commentaire: input.Commentaire,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, avis)
}

// DeleteAvis godoc
// @Summary      Delete a review (author or admin)
// @Tags         avis
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Avis ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /avis/{id} [delete]
func DeleteAvis(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := stores().Avis.Delete(c.Request.Context(), id, s.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
