package ports

import "context"

// Profile is the public face of an account at the table.
type Profile struct {
	Username    string
	DisplayName string
	AvatarIndex int
}

// AccountPort updates account profiles.
type AccountPort interface {
	// UpdateProfile applies p to the account. An empty Username keeps the current one.
	UpdateProfile(ctx context.Context, userID string, p Profile) error
}
