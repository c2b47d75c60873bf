// Package model defines domain entities for the application.
package model

import "time"

// User represents a user profile keyed by the identity provider subject.
// Profiles are provisioned lazily on first authenticated request and are
// never deleted by this system.
type User struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
