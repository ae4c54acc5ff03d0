package store

import (
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier is told whenever a recipient's notifications change.
// It is an invalidation signal only; readers re-query the store.
type Notifier interface {
	NotificationsChanged(recipientID uuid.UUID)
}

type noopNotifier struct{}

func (noopNotifier) NotificationsChanged(uuid.UUID) {}

// Options configures the accessors.
type Options struct {
	Logger   *slog.Logger
	Notifier Notifier
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Notifier == nil {
		o.Notifier = noopNotifier{}
	}
	return o
}

// Stores bundles every accessor over one database handle.
type Stores struct {
	Follows       *FollowStore
	Annonces      *AnnonceStore
	Likes         *LikeStore
	Avis          *AvisStore
	Messages      *MessageStore
	Notifications *NotificationStore
	Profiles      *ProfileStore
	Stats         *StatsStore
}

func New(db *gorm.DB, opts Options) *Stores {
	opts = opts.withDefaults()
	notifications := NewNotificationStore(db, opts)
	return &Stores{
		Follows:       NewFollowStore(db, notifications, opts),
		Annonces:      NewAnnonceStore(db, opts),
		Likes:         NewLikeStore(db, opts),
		Avis:          NewAvisStore(db, opts),
		Messages:      NewMessageStore(db, opts),
		Notifications: notifications,
		Profiles:      NewProfileStore(db, opts),
		Stats:         NewStatsStore(db, opts),
	}
}
