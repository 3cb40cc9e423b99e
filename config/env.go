package config

import (
	"fmt"
	"time"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment variables on top of file values.
// Only variables that are set (even to "") replace a value.
func (s *Settings) ApplyEnv(lookup LookupFunc) error {
	values := map[string]*string{
		"TTS_API_URL":         &s.TTSSettings.ApiUrl,
		"TTS_MODEL":           &s.TTSSettings.Model,
		"TTS_RESPONSE_FORMAT": &s.TTSSettings.ResponseFormat,
		"TTS_PROVIDER":        &s.TTSSettings.Provider,
		"TTS_API_KEY":         &s.TTSSettings.ApiKey,
		"TTS_VOICE":           &s.TTSSettings.Voice,
		"TTS_LANGUAGE":        &s.TTSSettings.Language,

		"TTS_PLAYER_WINDOWS":      &s.Playback.Windows.Command,
		"TTS_PLAYER_WINDOWS_ARGS": &s.Playback.Windows.Arguments,
		"TTS_PLAYER_LINUX":        &s.Playback.Linux.Command,
		"TTS_PLAYER_LINUX_ARGS":   &s.Playback.Linux.Arguments,
		"TTS_PLAYER_OSX":          &s.Playback.OSX.Command,
		"TTS_PLAYER_OSX_ARGS":     &s.Playback.OSX.Arguments,

		// same names the S3 helper has always read
		"S3_HOSTNAME":  &s.Storage.S3.Endpoint,
		"S3_REGION":    &s.Storage.S3.Region,
		"S3_BUCKET":    &s.Storage.S3.Bucket,
		"S3_ACCESS":    &s.Storage.S3.AccessKey,
		"S3_SECRET":    &s.Storage.S3.SecretKey,
		"S3_PUBLICURL": &s.Storage.S3.PublicUrl,
		"S3_PREFIX":    &s.Storage.S3.Prefix,

		"TTS_LOG_LEVEL": &s.Logging.Level,
	}

	for key, target := range values {
		if value, ok := lookup(key); ok {
			*target = value
		}
	}

	if value, ok := lookup("TTS_TIMEOUT"); ok && value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid TTS_TIMEOUT %q; %w", value, err)
		}
		s.TTSSettings.Timeout = timeout
	}

	return nil
}
