package handler

import (
	"net/http"

	"immo/backend/internal/auth"
	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// region --- DTOs ---

// FollowCountsResponse holds both sides of a profile's follow graph.
type FollowCountsResponse struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// endregion

// GetProfile godoc
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Param        id path string true "Profile ID"
// @Success      200 {object} store.ProfileView
// @Failure      404 {object} ErrorResponse
// @Router       /profiles/{id} [get]
func GetProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	profile, err := stores().Profiles.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile godoc
// @Summary      Update my profile
// @Description  Changes name, phone number or photos. Omitted fields are kept.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body store.ProfileUpdate true "Fields to change"
// @Success      200 {object} store.ProfileView
// @Router       /profiles/me [put]
func UpdateMyProfile(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	var input store.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := stores().Profiles.Update(c.Request.Context(), s.UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListCourtiers godoc
// @Summary      List courtiers
// @Tags         profiles
// @Produce      json
// @Param        q query string false "Name filter"
// @Success      200 {array} store.ProfileView
// @Router       /courtiers [get]
func ListCourtiers(c *gin.Context) {
	list, err := stores().Profiles.ListCourtiers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetFollowers godoc
// @Summary      List followers
// @Tags         follows
// @Produce      json
// @Param        id path string true "Profile ID"
// @Success      200 {array} store.ProfileView
// @Router       /profiles/{id}/followers [get]
func GetFollowers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := stores().Follows.Followers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetFollowing godoc
// @Summary      List followed profiles
// @Tags         follows
// @Produce      json
// @Param        id path string true "Profile ID"
// @Success      200 {array} store.ProfileView
// @Router       /profiles/{id}/following [get]
func GetFollowing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := stores().Follows.Following(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetFollowCounts godoc
// @Summary      Follower and following counts
// @Tags         follows
// @Produce      json
// @Param        id path string true "Profile ID"
// @Success      200 {object} FollowCountsResponse
// @Router       /profiles/{id}/counts [get]
func GetFollowCounts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	follows := stores().Follows
	var res FollowCountsResponse

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		res.Followers, err = follows.FollowerCount(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		res.Following, err = follows.FollowingCount(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetMutualFollow godoc
// @Summary      Follow state between me and a profile
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Profile ID"
// @Success      200 {object} store.MutualFollow
// @Router       /profiles/{id}/mutual [get]
func GetMutualFollow(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := stores().Follows.MutualFollow(c.Request.Context(), s.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// FollowProfile godoc
// @Summary      Follow a profile
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Profile ID"
// @Success      201 {object} MessageResponse
// @Failure      400 {object} ErrorResponse "Cannot follow yourself"
// @Failure      409 {object} ErrorResponse "Already following"
// @Router       /profiles/{id}/follow [post]
func FollowProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := stores().Profiles.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if _, err := stores().Follows.Follow(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Following"})
}

// UnfollowProfile godoc
// @Summary      Unfollow a profile
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Profile ID"
// @Success      200 {object} MessageResponse
// @Router       /profiles/{id}/follow [delete]
func UnfollowProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := stores().Follows.Unfollow(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}
