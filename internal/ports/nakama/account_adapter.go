package nakama

import (
	"context"

	"sandwich/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaAccountAdapter implements ports.AccountPort using Nakama's account API.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// UpdateProfile writes the names and stores the avatar in account metadata, the
// same place bot accounts keep theirs.
func (a *NakamaAccountAdapter) UpdateProfile(ctx context.Context, userID string, p ports.Profile) error {
	metadata := map[string]interface{}{
		"is_bot":       false,
		"avatar_index": p.AvatarIndex,
	}
	return a.nk.AccountUpdateId(ctx, userID, p.Username, metadata, p.DisplayName, "", "", "", "")
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
