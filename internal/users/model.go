package users

import "time"

// User is an authenticated account. ID is the subject reported by the
// identity provider, prefixed with the provider name.
type User struct {
	ID         string    `json:"id"`
	Provider   string    `json:"provider"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	GivenName  string    `json:"givenName"`
	FamilyName string    `json:"familyName"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
