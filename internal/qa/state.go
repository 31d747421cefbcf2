package qa

import (
	"errors"
	"fmt"
	"maps"
)

const (
	stateKeyPreferences   = "preferences"
	preferenceKeyLanguage = "language"
)

// ErrNoSessionState is returned when a preference write has nowhere to go.
var ErrNoSessionState = errors.New("session state unavailable")

// SessionState is the caller-owned key/value container carried across calls.
type SessionState interface {
	Get(key string) (any, bool)
	Set(key string, value any) error
}

// MapState is a plain map-backed SessionState.
type MapState map[string]any

// Get implements SessionState.
func (m MapState) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Set implements SessionState.
func (m MapState) Set(key string, value any) error {
	if m == nil {
		return ErrNoSessionState
	}
	m[key] = value
	return nil
}

// Preference returns the stored language preference, or English when none can be read.
func Preference(state SessionState) (lang Language) {
	defer func() {
		if recover() != nil {
			lang = English
		}
	}()

	raw, ok := storedLanguage(state)
	if !ok {
		return English
	}
	parsed, ok := ParseLanguage(raw)
	if !ok {
		return English
	}
	return parsed
}

// SetPreference overwrites preferences.language, keeping any other preference keys.
func SetPreference(state SessionState, lang Language) error {
	if state == nil {
		return ErrNoSessionState
	}

	prefs := map[string]any{}
	if raw, ok := state.Get(stateKeyPreferences); ok {
		switch existing := raw.(type) {
		case map[string]any:
			maps.Copy(prefs, existing)
		case map[string]string:
			for k, v := range existing {
				prefs[k] = v
			}
		}
	}
	prefs[preferenceKeyLanguage] = string(lang)

	if err := state.Set(stateKeyPreferences, prefs); err != nil {
		return fmt.Errorf("store language preference: %w", err)
	}
	return nil
}

func storedLanguage(state SessionState) (string, bool) {
	if state == nil {
		return "", false
	}
	raw, ok := state.Get(stateKeyPreferences)
	if !ok {
		return "", false
	}
	switch prefs := raw.(type) {
	case map[string]any:
		lang, ok := prefs[preferenceKeyLanguage].(string)
		return lang, ok
	case map[string]string:
		lang, ok := prefs[preferenceKeyLanguage]
		return lang, ok
	default:
		return "", false
	}
}
