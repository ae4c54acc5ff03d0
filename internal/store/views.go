package store

import (
	"time"

	"immo/backend/internal/models"

	"github.com/google/uuid"
)

// AnnonceView is the listing shape returned to callers.
type AnnonceView struct {
	ID             uuid.UUID            `json:"id"`
	Titre          string               `json:"titre"`
	Type           string               `json:"type"`
	Description    string               `json:"description"`
	Prix           float64              `json:"prix"`
	Superficie     float64              `json:"superficie"`
	Adresse        string               `json:"adresse"`
	Ville          string               `json:"ville"`
	Quartier       string               `json:"quartier"`
	Chambres       int                  `json:"chambres"`
	SallesDeBain   int                  `json:"sallesDeBain"`
	Meuble         bool                 `json:"meuble"`
	Latitude       *float64             `json:"latitude"`
	Longitude      *float64             `json:"longitude"`
	Photos         []string             `json:"photos"`
	CreatedBy      uuid.UUID            `json:"createdBy"`
	CreatedByNom   string               `json:"createdByNom"`
	CreatedByPhoto *string              `json:"createdByPhoto"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Status         models.AnnonceStatus `json:"status"`
}

func newAnnonceView(a models.Annonce) AnnonceView {
	photos := []string(a.Photos)
	if photos == nil {
		photos = []string{}
	}
	return AnnonceView{
		ID:             a.ID,
		Titre:          a.Titre,
		Type:           a.Type,
		Description:    a.Description,
		Prix:           a.Prix,
		Superficie:     a.Superficie,
		Adresse:        a.Adresse,
		Ville:          a.Ville,
		Quartier:       a.Quartier,
		Chambres:       a.Chambres,
		SallesDeBain:   a.SallesDeBain,
		Meuble:         a.Meuble,
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		Photos:         photos,
		CreatedBy:      a.CreatedBy,
		CreatedByNom:   a.CreatedByNom,
		CreatedByPhoto: a.CreatedByPhoto,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Status:         a.Status,
	}
}

func newAnnonceViews(rows []models.Annonce) []AnnonceView {
	out := make([]AnnonceView, 0, len(rows))
	for _, a := range rows {
		out = append(out, newAnnonceView(a))
	}
	return out
}

// ProfileView is the public profile shape.
type ProfileView struct {
	ID              uuid.UUID   `json:"id"`
	Nom             string      `json:"nom"`
	Email           string      `json:"email"`
	Telephone       *string     `json:"telephone"`
	Role            models.Role `json:"role"`
	PhotoProfil     *string     `json:"photoProfil"`
	PhotoCouverture *string     `json:"photoCouverture"`
	CreatedAt       time.Time   `json:"createdAt"`
}

func newProfileView(p models.Profile) ProfileView {
	return ProfileView{
		ID:              p.ID,
		Nom:             p.Nom,
		Email:           p.Email,
		Telephone:       p.Telephone,
		Role:            p.Role,
		PhotoProfil:     p.PhotoProfil,
		PhotoCouverture: p.PhotoCouverture,
		CreatedAt:       p.CreatedAt,
	}
}

func newProfileViews(rows []models.Profile) []ProfileView {
	out := make([]ProfileView, 0, len(rows))
	for _, p := range rows {
		out = append(out, newProfileView(p))
	}
	return out
}

// AvisView is a review as returned to callers.
type AvisView struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	UserName    string    `json:"userName"`
	UserPhoto   *string   `json:"userPhoto"`
	AnnonceID   uuid.UUID `json:"annonceId"`
	CourtierID  uuid.UUID `json:"courtierId"`
	Note        int       `json:"note"`
	Commentaire string    `json:"commentaire"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newAvisView(a models.Avis) AvisView {
	return AvisView{
		ID:          a.ID,
		UserID:      a.UserID,
		UserName:    a.UserNom,
		UserPhoto:   a.UserPhoto,
		AnnonceID:   a.AnnonceID,
		CourtierID:  a.CourtierID,
		Note:        a.Note,
		Commentaire: a.Commentaire,
		CreatedAt:   a.CreatedAt,
	}
}

// MessageView is the message linked to a notification.
type MessageView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationView is a notification with its sender and linked message.
type NotificationView struct {
	ID          uuid.UUID               `json:"id"`
	RecipientID uuid.UUID               `json:"recipientId"`
	SenderID    *uuid.UUID              `json:"senderId"`
	MessageID   *uuid.UUID              `json:"messageId"`
	Type        models.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Body        string                  `json:"body"`
	Link        string                  `json:"link"`
	Read        bool                    `json:"read"`
	CreatedAt   time.Time               `json:"createdAt"`
	Sender      *ProfileView            `json:"sender,omitempty"`
	Message     *MessageView            `json:"message,omitempty"`
}

func newNotificationView(n models.Notification) NotificationView {
	v := NotificationView{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		MessageID:   n.MessageID,
		Type:        n.Type,
		Title:       n.Title,
		Body:        n.Body,
		Link:        n.Link,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
	if n.Sender != nil && n.Sender.ID != uuid.Nil {
		sender := newProfileView(*n.Sender)
		v.Sender = &sender
	}
	if n.Message != nil && n.Message.ID != uuid.Nil {
		v.Message = &MessageView{ID: n.Message.ID, Content: n.Message.Content, CreatedAt: n.Message.CreatedAt}
	}
	return v
}
