package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"sandwich/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Nakama RPC error codes (gRPC status codes).
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, preferences ports.PreferencesPort) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcGetPreferences, rpcGetPreferences(preferences)); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcSavePreferences, rpcSavePreferences(preferences))
}

type rpcFunc func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

func rpcGetPreferences(preferences ports.PreferencesPort) rpcFunc {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if !ok || userID == "" {
			return "", runtime.NewError("authentication required", codeUnauthenticated)
		}
		prefs, err := preferences.Load(ctx, userID)
		if err != nil {
			logger.Error("GetPreferences [User:%s]: %v", userID, err)
			return "", runtime.NewError("failed to load preferences", codeInternal)
		}
		b, err := json.Marshal(prefs)
		if err != nil {
			return "", runtime.NewError("failed to encode preferences", codeInternal)
		}
		return string(b), nil
	}
}

// rpcSavePreferences merges the payload over the stored preferences, so clients may
// send only the fields they change.
func rpcSavePreferences(preferences ports.PreferencesPort) rpcFunc {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if !ok || userID == "" {
			return "", runtime.NewError("authentication required", codeUnauthenticated)
		}
		prefs, err := preferences.Load(ctx, userID)
		if err != nil {
			logger.Error("SavePreferences [User:%s]: %v", userID, err)
			return "", runtime.NewError("failed to load preferences", codeInternal)
		}
		if err := json.Unmarshal([]byte(payload), &prefs); err != nil {
			return "", runtime.NewError("invalid preferences payload", codeInvalidArgument)
		}
		if err := preferences.Save(ctx, userID, prefs); err != nil {
			if errors.Is(err, ports.ErrInvalidPreferences) {
				return "", runtime.NewError(err.Error(), codeInvalidArgument)
			}
			logger.Error("SavePreferences [User:%s]: %v", userID, err)
			return "", runtime.NewError("failed to save preferences", codeInternal)
		}
		b, err := json.Marshal(prefs)
		if err != nil {
			return "", runtime.NewError("failed to encode preferences", codeInternal)
		}
		return string(b), nil
	}
}
