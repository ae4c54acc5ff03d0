package store

import (
	"context"
	"testing"

	"immo/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeScenario(t *testing.T) {
	db, s, _ := newTestStores(t)
	a := seedProfile(t, db, "Courtier", models.RoleCourtier)
	b := seedProfile(t, db, "Client", models.RoleClient)
	ctx := context.Background()

	listing, err := s.Annonces.Create(as(a), sampleAnnonce("T2"))
	require.NoError(t, err)
	require.Equal(t, 50000.0, listing.Prix)

	liked, err := s.Likes.Toggle(ctx, b.ID, listing.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	count, err := s.Likes.Count(ctx, listing.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	liked, err = s.Likes.Toggle(ctx, b.ID, listing.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	count, err = s.Likes.Count(ctx, listing.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestToggleLikeIsInvolutionFromLikedState(t *testing.T) {
	db, s, _ := newTestStores(t)
	a := seedProfile(t, db, "Courtier", models.RoleCourtier)
	b := seedProfile(t, db, "Client", models.RoleClient)
	c := seedProfile(t, db, "Other", models.RoleClient)
	ctx := context.Background()
	listing, err := s.Annonces.Create(as(a), sampleAnnonce("T2"))
	require.NoError(t, err)

	_, err = s.Likes.Toggle(ctx, c.ID, listing.ID)
	require.NoError(t, err)
	_, err = s.Likes.Toggle(ctx, b.ID, listing.ID)
	require.NoError(t, err)

	before, err := s.Likes.Count(ctx, listing.ID)
	require.NoError(t, err)

	_, err = s.Likes.Toggle(ctx, b.ID, listing.ID)
	require.NoError(t, err)
	state, err := s.Likes.Toggle(ctx, b.ID, listing.ID)
	require.NoError(t, err)

	assert.True(t, state)
	after, err := s.Likes.Count(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	has, err := s.Likes.HasLiked(ctx, b.ID, listing.ID)
	require.NoError(t, err)
	assert.True(t, has)

	likers, err := s.Likes.Likers(ctx, listing.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{b.ID, c.ID}, likers)

	favs, err := s.Annonces.LikedBy(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{listing.ID}, ids(favs))
}

func TestAddAvisTwiceFailsAndKeepsOneReview(t *testing.T) {
	db, s, _ := newTestStores(t)
	c := seedProfile(t, db, "Courtier", models.RoleCourtier)
	u := seedProfile(t, db, "Client", models.RoleClient)
	ctx := as(u)
	listing, err := s.Annonces.Create(as(c), sampleAnnonce("T4"))
	require.NoError(t, err)

	in := AvisInput{AnnonceID: listing.ID, CourtierID: c.ID, Note: 4, Commentaire: "Très bien"}
	_, err = s.Avis.Add(ctx, in)
	require.NoError(t, err)

	_, err = s.Avis.Add(ctx, in)
	assert.ErrorIs(t, err, ErrDuplicateReview)

	count, err := s.Avis.Count(ctx, listing.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUniqueIndexBacksDuplicateReview(t *testing.T) {
	db, s, _ := newTestStores(t)
	u := seedProfile(t, db, "Client", models.RoleClient)
	annonceID := uuid.New()

	// simulate the losing side of the check-then-insert race
	require.NoError(t, db.Create(&models.Avis{UserID: u.ID, AnnonceID: annonceID, CourtierID: uuid.New(), Note: 3, Commentaire: "ok"}).Error)
	err := db.Create(&models.Avis{UserID: u.ID, AnnonceID: annonceID, CourtierID: uuid.New(), Note: 5, Commentaire: "again"}).Error
	require.Error(t, err)

	_, err = s.Avis.Add(as(u), AvisInput{AnnonceID: annonceID, Note: 2, Commentaire: "x"})
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestAddAvisStampsSessionAuthor(t *testing.T) {
	db, s, _ := newTestStores(t)
	c := seedProfile(t, db, "Courtier", models.RoleCourtier)
	u := seedProfile(t, db, "Client", models.RoleClient)
	listing, err := s.Annonces.Create(as(c), sampleAnnonce("Villa"))
	require.NoError(t, err)

	in := AvisInput{AnnonceID: listing.ID, CourtierID: c.ID, Note: 5, Commentaire: "Parfait"}
	_, err = s.Avis.Add(context.Background(), in)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	got, err := s.Avis.Add(as(u), in)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, u.Nom, got.UserName)

	reviewed, err := s.Avis.HasReviewed(context.Background(), u.ID, listing.ID)
	require.NoError(t, err)
	assert.True(t, reviewed)
	reviewed, err = s.Avis.HasReviewed(context.Background(), c.ID, listing.ID)
	require.NoError(t, err)
	assert.False(t, reviewed)
}

func TestAddAvisValidation(t *testing.T) {
	db, s, _ := newTestStores(t)
	u := seedProfile(t, db, "Client", models.RoleClient)

	_, err := s.Avis.Add(as(u), AvisInput{AnnonceID: uuid.New(), Note: 0, Commentaire: "x"})
	assert.ErrorIs(t, err, ErrInvalidNote)
	_, err = s.Avis.Add(as(u), AvisInput{AnnonceID: uuid.New(), Note: 6, Commentaire: "x"})
	assert.ErrorIs(t, err, ErrInvalidNote)
	_, err = s.Avis.Add(as(u), AvisInput{AnnonceID: uuid.New(), Note: 3, Commentaire: "   "})
	assert.ErrorIs(t, err, ErrCommentRequired)
	assert.True(t, IsValidation(err))
}

func TestDeleteAvisAuthorOrAdmin(t *testing.T) {
	db, s, _ := newTestStores(t)
	author := seedProfile(t, db, "Author", models.RoleClient)
	other := seedProfile(t, db, "Other", models.RoleClient)
	admin := seedProfile(t, db, "Admin", models.RoleAdmin)

	first, err := s.Avis.Add(as(author), AvisInput{AnnonceID: uuid.New(), CourtierID: uuid.New(), Note: 5, Commentaire: "Top"})
	require.NoError(t, err)
	second, err := s.Avis.Add(as(author), AvisInput{AnnonceID: uuid.New(), CourtierID: uuid.New(), Note: 1, Commentaire: "Bof"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Avis.Delete(context.Background(), first.ID, author.ID), ErrNotAuthenticated)
	assert.ErrorIs(t, s.Avis.Delete(as(other), first.ID, other.ID), ErrPermissionDenied)
	assert.ErrorIs(t, s.Avis.Delete(as(other), first.ID, author.ID), ErrPermissionDenied)
	assert.ErrorIs(t, s.Avis.Delete(as(author), uuid.New(), author.ID), ErrNotFound)

	require.NoError(t, s.Avis.Delete(as(author), first.ID, author.ID))
	require.NoError(t, s.Avis.Delete(as(admin), second.ID, admin.ID))
}

func TestAverages(t *testing.T) {
	db, s, _ := newTestStores(t)
	c := seedProfile(t, db, "Courtier", models.RoleCourtier)
	u1 := seedProfile(t, db, "Un", models.RoleClient)
	u2 := seedProfile(t, db, "Deux", models.RoleClient)
	u3 := seedProfile(t, db, "Trois", models.RoleClient)
	annonceID := uuid.New()
	ctx := context.Background()

	avg, err := s.Avis.AverageForAnnonce(ctx, annonceID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	for i, u := range []models.Profile{u1, u2, u3} {
		_, err := s.Avis.Add(as(u), AvisInput{AnnonceID: annonceID, CourtierID: c.ID, Note: []int{5, 4, 4}[i], Commentaire: "ok"})
		require.NoError(t, err)
	}

	avg, err = s.Avis.AverageForAnnonce(ctx, annonceID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, avg)

	avg, err = s.Avis.AverageForCourtier(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, avg)

	list, err := s.Avis.ForCourtier(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
