package domain

// User is the slice of identity this server cares about. Credentials and
// sessions live with the external identity provider; we only keep the
// opaque stable id and display name carried in access tokens.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
