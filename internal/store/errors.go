package store

import (
	"errors"

	"immo/backend/internal/auth"
)

var (
	// ErrNotAuthenticated indicates the operation needs a session.
	ErrNotAuthenticated = auth.ErrNotAuthenticated
	// ErrPermissionDenied indicates the caller is neither owner nor admin.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound indicates the target row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateReview indicates the user already reviewed the listing.
	ErrDuplicateReview = errors.New("review already exists for this listing")
	// ErrAlreadyFollowing indicates the follow edge already exists.
	ErrAlreadyFollowing = errors.New("already following")
	// ErrSelfFollow indicates a profile tried to follow itself.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrInvalidNote rejects a review note outside 1..5.
	ErrInvalidNote = errors.New("note must be between 1 and 5")
	// ErrCommentRequired rejects a review without text.
	ErrCommentRequired = errors.New("comment is required")
	// ErrContentRequired rejects a blank message or notification body.
	ErrContentRequired = errors.New("message content is required")
	// ErrInvalidStatus rejects a listing status other than active, inactive or archived.
	ErrInvalidStatus = errors.New("invalid listing status")
	// ErrInvalidRole rejects an unknown profile role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrRecipientRequired rejects a message without a recipient.
	ErrRecipientRequired = errors.New("recipient is required")
	// ErrTitleRequired rejects a listing without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrNameRequired rejects a profile update with a blank name.
	ErrNameRequired = auth.ErrNameRequired
)

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	for _, target := range []error{ErrSelfFollow, ErrInvalidNote, ErrCommentRequired, ErrContentRequired,
		ErrInvalidStatus, ErrInvalidRole, ErrRecipientRequired, ErrTitleRequired, ErrNameRequired} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateReview) || errors.Is(err, ErrAlreadyFollowing)
}
