package ports

import (
	"errors"
	"testing"
)

func TestPreferencesValidate(t *testing.T) {
	tests := []struct {
		name    string
		prefs   Preferences
		wantErr bool
	}{
		{name: "Defaults", prefs: DefaultPreferences()},
		{name: "Silent", prefs: Preferences{Volume: 0, BotDifficulty: "easy"}},
		{name: "Max", prefs: Preferences{Volume: 100, BotDifficulty: "hard"}},
		{name: "TooLoud", prefs: Preferences{Volume: 101, BotDifficulty: "hard"}, wantErr: true},
		{name: "Negative", prefs: Preferences{Volume: -1, BotDifficulty: "hard"}, wantErr: true},
		{name: "UnknownDifficulty", prefs: Preferences{Volume: 50, BotDifficulty: "god"}, wantErr: true},
		{name: "MissingDifficulty", prefs: Preferences{Volume: 50}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.prefs.Validate()
			if test.wantErr {
				if !errors.Is(err, ErrInvalidPreferences) {
					t.Fatalf("Validate() = %v, want ErrInvalidPreferences", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v", err)
			}
		})
	}
}
