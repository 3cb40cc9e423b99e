// Package platform maps the running operating system to its playback profile.
package platform

import (
	"fmt"
	"runtime"

	"ttspipe/config"
)

// Platform ids, as reported by runtime.GOOS.
const (
	Windows = "windows"
	Linux   = "linux"
	MacOS   = "darwin"
)

// Resolve returns the playback profile configured for goos.
// The returned profile always has a non-empty command.
func Resolve(goos string, settings config.Settings) (config.PlaybackProfile, error) {
	var (
		profile config.PlaybackProfile
		key     string
	)

	switch goos {
	case Windows:
		profile, key = settings.Playback.Windows, "Playback.Windows"
	case Linux:
		profile, key = settings.Playback.Linux, "Playback.Linux"
	case MacOS:
		profile, key = settings.Playback.OSX, "Playback.OSX"
	default:
		return config.PlaybackProfile{}, fmt.Errorf("%s; %w", goos, config.ErrUnsupportedPlatform)
	}

	if profile.Command == "" {
		return config.PlaybackProfile{}, fmt.Errorf("%s.PlayerCommand; %w", key, config.ErrMissingPlayer)
	}

	profile.Platform = goos
	return profile, nil
}

// Current resolves the profile for the platform this binary runs on.
func Current(settings config.Settings) (config.PlaybackProfile, error) {
	return Resolve(runtime.GOOS, settings)
}
