package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"immo/backend/internal/models"
	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unread(t *testing.T, r *gin.Engine, token string) int64 {
	t.Helper()
	w := request(t, r, http.MethodGet, "/api/v1/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return decode[UnreadCountResponse](t, w).Count
}

func TestMessageConversation(t *testing.T) {
	r, _ := setupRouter(t)
	courtier, courtierToken := seedUser(t, "Courtier", models.RoleCourtier)
	client, clientToken := seedUser(t, "Client", models.RoleClient)

	w := request(t, r, http.MethodPost, "/api/v1/messages", clientToken, gin.H{
		"recipientId": courtier.ID, "content": "  Le bien est-il disponible ?  ",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sent := decode[store.Sent](t, w)
	assert.Equal(t, "Le bien est-il disponible ?", sent.Message.Content)
	assert.Equal(t, "Nouveau message", sent.Notification.Title)
	assert.Equal(t, int64(1), unread(t, r, courtierToken))

	w = request(t, r, http.MethodGet, "/api/v1/notifications/sent", clientToken, nil)
	require.Len(t, decode[[]store.NotificationView](t, w), 1)

	notifPath := "/api/v1/notifications/" + sent.Notification.ID.String()

	w = request(t, r, http.MethodPut, notifPath, courtierToken, gin.H{"content": "Réécrit"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(t, r, http.MethodPut, notifPath, clientToken, gin.H{"content": "Toujours disponible ?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Toujours disponible ?", decode[store.NotificationView](t, w).Body)

	w = request(t, r, http.MethodPost, notifPath+"/reply", courtierToken, gin.H{"content": "Oui, visite samedi."})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reply := decode[store.Sent](t, w)
	assert.Equal(t, client.ID, reply.Notification.RecipientID)
	assert.Equal(t, "Réponse du courtier", reply.Notification.Title)
	assert.Equal(t, "/notifications-client", reply.Notification.Link)
	assert.Equal(t, int64(1), unread(t, r, clientToken))

	w = request(t, r, http.MethodPost, notifPath+"/read", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(t, r, http.MethodPost, notifPath+"/read", courtierToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), unread(t, r, courtierToken))

	w = request(t, r, http.MethodDelete, notifPath, courtierToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = request(t, r, http.MethodGet, "/api/v1/notifications", courtierToken, nil)
	assert.Empty(t, decode[[]store.NotificationView](t, w))
}

func TestSendMessageValidation(t *testing.T) {
	r, _ := setupRouter(t)
	courtier, _ := seedUser(t, "Courtier", models.RoleCourtier)
	_, clientToken := seedUser(t, "Client", models.RoleClient)

	w := request(t, r, http.MethodPost, "/api/v1/messages", clientToken, gin.H{"recipientId": courtier.ID, "content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodPost, "/api/v1/messages", clientToken, gin.H{
		"recipientId": "6f1c7a52-3f34-4b8e-9d43-2b8f0d4a1c11", "content": "Bonjour",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, r, http.MethodPost, "/api/v1/messages", "", gin.H{"recipientId": courtier.ID, "content": "Bonjour"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowRoutes(t *testing.T) {
	r, _ := setupRouter(t)
	courtier, courtierToken := seedUser(t, "Courtier", models.RoleCourtier)
	client, clientToken := seedUser(t, "Client", models.RoleClient)
	followPath := "/api/v1/profiles/" + courtier.ID.String() + "/follow"

	w := request(t, r, http.MethodPost, "/api/v1/profiles/"+client.ID.String()+"/follow", clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodPost, followPath, clientToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = request(t, r, http.MethodPost, followPath, clientToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, r, http.MethodPost, "/api/v1/profiles/"+client.ID.String()+"/follow", courtierToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(t, r, http.MethodGet, "/api/v1/profiles/"+courtier.ID.String()+"/counts", "", nil)
	assert.Equal(t, FollowCountsResponse{Followers: 1, Following: 1}, decode[FollowCountsResponse](t, w))

	w = request(t, r, http.MethodGet, "/api/v1/profiles/"+courtier.ID.String()+"/mutual", clientToken, nil)
	assert.Equal(t, store.MutualFollow{IFollow: true, TheyFollow: true, Mutual: true}, decode[store.MutualFollow](t, w))

	w = request(t, r, http.MethodDelete, followPath, clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = request(t, r, http.MethodGet, "/api/v1/profiles/"+courtier.ID.String()+"/followers", "", nil)
	assert.Empty(t, decode[[]store.ProfileView](t, w))
}

func TestStreamPushesUnreadCount(t *testing.T) {
	r, _ := setupRouter(t)
	courtier, courtierToken := seedUser(t, "Courtier", models.RoleCourtier)
	_, clientToken := seedUser(t, "Client", models.RoleClient)

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/notifications/stream?access_token="+courtierToken, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := bufio.NewScanner(resp.Body)
	nextCount := func() int64 {
		t.Helper()
		for lines.Scan() {
			line := lines.Text()
			if data, ok := strings.CutPrefix(line, "data:"); ok {
				var got UnreadCountResponse
				require.NoError(t, json.Unmarshal([]byte(data), &got))
				return got.Count
			}
		}
		require.NoError(t, lines.Err())
		t.Fatal("stream ended")
		return 0
	}

	assert.Equal(t, int64(0), nextCount())

	w := request(t, r, http.MethodPost, "/api/v1/messages", clientToken, gin.H{"recipientId": courtier.ID, "content": "Bonjour"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(1), nextCount())
}
