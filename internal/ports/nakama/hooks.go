package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"sandwich/internal/app/onboarding"
	"sandwich/internal/config"
	"sandwich/internal/ports"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateDevice is triggered after an account is authenticated.
// It names new accounts and stores their default preferences.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.Created {
		return nil
	}

	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		// Resolve User ID from the claims of the freshly issued session token.
		resolvedID, err := extractUserIDFromToken(out.Token)
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Failed to extract user ID from token: %v", err)
			return err
		}
		userID = resolvedID
	}

	logger.Info("Onboarding new user %s", userID)

	defaults := ports.DefaultPreferences()
	defaults.BotDifficulty = config.GetGameConfig().BotDifficulty
	service := onboarding.NewService(NewNakamaAccountAdapter(nk), NewNakamaPreferencesAdapter(nk), nil).WithDefaults(defaults)
	result, err := service.OnboardNewUser(ctx, userID)
	if result.ProfileUpdateErr != nil {
		logger.Warn("AfterAuthenticateDevice: Failed to update profile for user %s: %v", userID, result.ProfileUpdateErr)
	}
	if err != nil {
		logger.Error("AfterAuthenticateDevice: Onboarding failed for user %s: %v", userID, err)
		return err
	}
	if !result.PreferencesCreated {
		logger.Info("AfterAuthenticateDevice: Preferences already stored for user %s", userID)
	}
	return nil
}

// extractUserIDFromToken reads the uid claim of a session token. The token was just
// issued by the server, so the signature is not checked.
func extractUserIDFromToken(token string) (string, error) {
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("session token has unexpected claims %T", parsed.Claims)
	}
	userID, _ := claims["uid"].(string)
	if userID == "" {
		return "", fmt.Errorf("session token has no uid claim")
	}
	return userID, nil
}
