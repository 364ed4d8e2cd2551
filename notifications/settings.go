package notifications

import "github.com/pagerline/incident-backend/db"

// RequiredSetting returns the string value under the key or a ConfigError
// when it is absent or empty. Channels use it to build their typed configs
// before performing any I/O.
func RequiredSetting(settings db.Settings, key string) (string, error) {
	value, ok := settings[key].(string)
	if !ok || value == "" {
		return "", &ConfigError{Key: key}
	}
	return value, nil
}

// OptionalSetting returns the string value under the key or the fallback
// when the key is absent or not a string.
func OptionalSetting(settings db.Settings, key, fallback string) string {
	if value, ok := settings[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

// BoolSetting returns the boolean value under the key. String values "true"
// and "1" count as true, matching how settings arrive from flat config
// sources.
func BoolSetting(settings db.Settings, key string) bool {
	switch value := settings[key].(type) {
	case bool:
		return value
	case string:
		return value == "true" || value == "1"
	default:
		return false
	}
}
