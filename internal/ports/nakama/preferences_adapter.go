package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sandwich/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	preferencesCollection = "settings"
	preferencesKey        = "preferences_v1"
)

// NakamaPreferencesAdapter stores preferences as a per-user storage object.
// Clients may read it; writes go through the preferences RPC so they are validated.
type NakamaPreferencesAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaPreferencesAdapter creates a new preferences adapter.
func NewNakamaPreferencesAdapter(nk runtime.NakamaModule) *NakamaPreferencesAdapter {
	return &NakamaPreferencesAdapter{nk: nk}
}

// Load returns the stored preferences, or defaults when the user has none.
func (a *NakamaPreferencesAdapter) Load(ctx context.Context, userID string) (ports.Preferences, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: preferencesCollection, Key: preferencesKey, UserID: userID},
	})
	if err != nil {
		return ports.Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}
	prefs := ports.DefaultPreferences()
	if len(objects) == 0 {
		return prefs, nil
	}
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &prefs); err != nil {
		return ports.Preferences{}, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return prefs, nil
}

// Save validates and overwrites the stored preferences.
func (a *NakamaPreferencesAdapter) Save(ctx context.Context, userID string, prefs ports.Preferences) error {
	return a.write(ctx, userID, prefs, "")
}

// InitOnce stores prefs only if no object exists yet, relying on the "*" version
// precondition to reject the write otherwise.
func (a *NakamaPreferencesAdapter) InitOnce(ctx context.Context, userID string, prefs ports.Preferences) (bool, error) {
	err := a.write(ctx, userID, prefs, "*")
	if errors.Is(err, runtime.ErrStorageRejectedVersion) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (a *NakamaPreferencesAdapter) write(ctx context.Context, userID string, prefs ports.Preferences, version string) error {
	if userID == "" {
		return fmt.Errorf("userID is required")
	}
	if err := prefs.Validate(); err != nil {
		return err
	}
	value, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      preferencesCollection,
			Key:             preferencesKey,
			UserID:          userID,
			Value:           string(value),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return err
		}
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

var _ ports.PreferencesPort = (*NakamaPreferencesAdapter)(nil)
