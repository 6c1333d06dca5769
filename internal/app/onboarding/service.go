package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"sandwich/internal/ports"
)

// avatarCount is the number of avatars the client ships.
const avatarCount = 12

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// PreferencesCreated is false when the account already had stored preferences.
	PreferencesCreated bool
	DisplayName        string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts    ports.AccountPort
	preferences ports.PreferencesPort
	rng         *rand.Rand
	defaults    ports.Preferences
}

// NewService constructs an onboarding service with required ports.
// accounts/preferences must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, preferences ports.PreferencesPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts:    accounts,
		preferences: preferences,
		rng:         rng,
		defaults:    ports.DefaultPreferences(),
	}
}

// WithDefaults sets the preferences written for new accounts.
func (s *Service) WithDefaults(prefs ports.Preferences) *Service {
	s.defaults = prefs
	return s
}

// OnboardNewUser gives a new account a friendly name and avatar and stores its
// default preferences. Profile failures are reported in Result; a preferences
// failure is returned as an error.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.preferences == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}
	if err := s.defaults.Validate(); err != nil {
		return Result{}, err
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	profile := ports.Profile{
		Username:    result.DisplayName,
		DisplayName: result.DisplayName,
		AvatarIndex: s.rng.Intn(avatarCount),
	}
	if err := s.accounts.UpdateProfile(ctx, userID, profile); err != nil {
		// Profile updates are best-effort; preferences drive bot difficulty.
		result.ProfileUpdateErr = err
	}

	created, err := s.preferences.InitOnce(ctx, userID, s.defaults)
	if err != nil {
		return result, fmt.Errorf("failed to store default preferences: %w", err)
	}
	result.PreferencesCreated = created
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Hungry", "Crusty", "Toasty", "Zesty", "Swift", "Calm", "Mighty", "Witty", "Sly", "Saucy"}
	nouns := []string{"Baguette", "Pickle", "Bagel", "Muffin", "Otter", "Falcon", "Panini", "Fox", "Waffle", "Radish"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
