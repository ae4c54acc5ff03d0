package store

import (
	"context"
	"testing"
	"time"

	"immo/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdateOwnerOnly(t *testing.T) {
	db, s, _ := newTestStores(t)
	me := seedProfile(t, db, "Moi", models.RoleClient)
	other := seedProfile(t, db, "Autre", models.RoleClient)

	nom, tel := "Moi Renommé", "+221 77 000 00 00"
	_, err := s.Profiles.Update(as(other), me.ID, ProfileUpdate{Nom: &nom})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	v, err := s.Profiles.Update(as(me), me.ID, ProfileUpdate{Nom: &nom, Telephone: &tel})
	require.NoError(t, err)
	assert.Equal(t, nom, v.Nom)
	require.NotNil(t, v.Telephone)
	assert.Equal(t, tel, *v.Telephone)

	blank := "  "
	_, err = s.Profiles.Update(as(me), me.ID, ProfileUpdate{Nom: &blank})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = s.Profiles.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCourtiers(t *testing.T) {
	db, s, _ := newTestStores(t)
	seedProfile(t, db, "Zoe", models.RoleCourtier)
	seedProfile(t, db, "Abdou", models.RoleCourtier)
	seedProfile(t, db, "Client", models.RoleClient)

	list, err := s.Profiles.ListCourtiers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Abdou", list[0].Nom)

	list, err = s.Profiles.ListCourtiers(context.Background(), "zo")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Zoe", list[0].Nom)
}

func TestAdminUserListAndRoles(t *testing.T) {
	db, s, _ := newTestStores(t)
	admin := seedProfile(t, db, "Admin", models.RoleAdmin)
	client := seedProfile(t, db, "Client", models.RoleClient)
	for _, n := range []string{"U1", "U2", "U3"} {
		seedProfile(t, db, n, models.RoleClient)
	}

	_, err := s.Profiles.ListAll(as(client), UserFilter{}, 1, 2)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	page, err := s.Profiles.ListAll(as(admin), UserFilter{}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page)

	page, err = s.Profiles.ListAll(as(admin), UserFilter{Role: models.RoleAdmin}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = s.Profiles.UpdateRole(as(client), client.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = s.Profiles.UpdateRole(as(admin), client.ID, "boss")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = s.Profiles.UpdateRole(as(admin), uuid.New(), models.RoleCourtier)
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := s.Profiles.UpdateRole(as(admin), client.ID, models.RoleCourtier)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCourtier, v.Role)

	counts, err := s.Profiles.CountByRole(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[models.RoleAdmin])
	assert.EqualValues(t, 1, counts[models.RoleCourtier])
	assert.EqualValues(t, 3, counts[models.RoleClient])
}

func TestStats(t *testing.T) {
	db, s, _ := newTestStores(t)
	c := seedProfile(t, db, "Courtier", models.RoleCourtier)
	u := seedProfile(t, db, "Client", models.RoleClient)
	seedProfile(t, db, "Admin", models.RoleAdmin)
	ctx := context.Background()

	dakar, err := s.Annonces.Create(as(c), sampleAnnonce("Dakar 1"))
	require.NoError(t, err)
	_, err = s.Annonces.Create(as(c), sampleAnnonce("Dakar 2"))
	require.NoError(t, err)
	in := sampleAnnonce("Thies 1")
	in.Ville = "Thies"
	_, err = s.Annonces.Create(as(c), in)
	require.NoError(t, err)

	_, err = s.Likes.Toggle(ctx, u.ID, dakar.ID)
	require.NoError(t, err)
	_, err = s.Messages.Send(as(u), SendMessageInput{RecipientID: c.ID, Content: "Bonjour"})
	require.NoError(t, err)
	_, err = s.Follows.Follow(as(u), c.ID)
	require.NoError(t, err)

	since := time.Now().Add(-24 * time.Hour)

	adminStats, err := s.Stats.Admin(ctx, since)
	require.NoError(t, err)
	assert.EqualValues(t, 3, adminStats.AnnoncesTotal)
	assert.EqualValues(t, 3, adminStats.AnnoncesActive)
	assert.EqualValues(t, 1, adminStats.Likes)
	assert.EqualValues(t, 1, adminStats.Messages)
	require.Len(t, adminStats.TopVilles, 2)
	assert.Equal(t, VilleCount{Ville: "Dakar", Count: 2}, adminStats.TopVilles[0])
	assert.EqualValues(t, 1, adminStats.Users[models.RoleAdmin])

	cs, err := s.Stats.Courtier(ctx, c.ID, since, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cs.AnnoncesTotal)
	assert.EqualValues(t, 1, cs.Likes)
	assert.EqualValues(t, 1, cs.Messages)
	assert.EqualValues(t, 1, cs.Followers)
	require.NotNil(t, cs.TopAnnonce)
	assert.Equal(t, dakar.ID, cs.TopAnnonce.ID)
	assert.EqualValues(t, 1, cs.TopAnnonce.Likes)
	require.Len(t, cs.Series, 7)

	var likes, messages int64
	for _, p := range cs.Series {
		likes += p.Likes
		messages += p.Messages
	}
	assert.EqualValues(t, 1, likes)
	assert.EqualValues(t, 1, messages)
}

func TestDailySeriesBuckets(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	likes := []time.Time{start.Add(2 * time.Hour), start.AddDate(0, 0, 2), start.AddDate(0, 0, 10)}
	messages := []time.Time{start.AddDate(0, 0, 1).Add(23 * time.Hour)}

	series := dailySeries(start, 3, likes, messages)

	require.Len(t, series, 3)
	assert.Equal(t, "2026-03-01", series[0].Date)
	assert.EqualValues(t, 1, series[0].Likes)
	assert.EqualValues(t, 1, series[1].Messages)
	assert.EqualValues(t, 1, series[2].Likes)
}
