package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSettings = `
TTSSettings:
  ApiUrl: http://localhost:8000/v1/audio/speech
  Model: tts-1
  ResponseFormat: mp3
  Timeout: 45s
Playback:
  Windows:
    PlayerCommand: default
  Linux:
    PlayerCommand: mpg123
    Arguments: -q
  OSX:
    PlayerCommand: afplay
Storage:
  S3:
    Bucket: voice-lines
    AccessKey: abcd1234
    SecretKey: secret
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestLoadFile(t *testing.T) {
	settings, err := LoadFile(writeSettings(t, sampleSettings))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/v1/audio/speech", settings.TTSSettings.ApiUrl)
	assert.Equal(t, "tts-1", settings.TTSSettings.Model)
	assert.Equal(t, "mp3", settings.TTSSettings.ResponseFormat)
	assert.Equal(t, 45*time.Second, settings.TTSSettings.Timeout)
	assert.Equal(t, "default", settings.Playback.Windows.Command)
	assert.Equal(t, "mpg123", settings.Playback.Linux.Command)
	assert.Equal(t, "-q", settings.Playback.Linux.Arguments)
	assert.Equal(t, "afplay", settings.Playback.OSX.Command)
	assert.True(t, settings.Storage.S3.Configured())
}

func TestLoadFileMissing(t *testing.T) {
	settings, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, Settings{}, settings)
}

func TestLoadFileInvalid(t *testing.T) {
	_, err := LoadFile(writeSettings(t, "TTSSettings: [not, a, map"))
	assert.Error(t, err)
}

func TestApplyEnvOverridesFile(t *testing.T) {
	settings, err := LoadFile(writeSettings(t, sampleSettings))
	require.NoError(t, err)

	err = settings.ApplyEnv(lookupFrom(map[string]string{
		"TTS_MODEL":             "tts-1-hd",
		"TTS_PLAYER_LINUX":      "ffplay",
		"TTS_PLAYER_LINUX_ARGS": "-nodisp -autoexit",
		"TTS_TIMEOUT":           "2m",
		"S3_BUCKET":             "other",
	}))
	require.NoError(t, err)

	assert.Equal(t, "tts-1-hd", settings.TTSSettings.Model)
	assert.Equal(t, "http://localhost:8000/v1/audio/speech", settings.TTSSettings.ApiUrl)
	assert.Equal(t, "ffplay", settings.Playback.Linux.Command)
	assert.Equal(t, "-nodisp -autoexit", settings.Playback.Linux.Arguments)
	assert.Equal(t, 2*time.Minute, settings.TTSSettings.Timeout)
	assert.Equal(t, "other", settings.Storage.S3.Bucket)
}

func TestApplyEnvBadTimeout(t *testing.T) {
	var settings Settings
	err := settings.ApplyEnv(lookupFrom(map[string]string{"TTS_TIMEOUT": "soon"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		tts  TTSSettings
		err  error
	}{
		{"http ok", TTSSettings{Provider: ProviderHTTP, ApiUrl: "http://x", Model: "tts-1"}, nil},
		{"http no url", TTSSettings{Provider: ProviderHTTP, Model: "tts-1"}, ErrMissingSetting},
		{"http no model", TTSSettings{Provider: ProviderHTTP, ApiUrl: "http://x"}, ErrMissingSetting},
		{"openai no key", TTSSettings{Provider: ProviderOpenAI, Model: "tts-1"}, ErrMissingSetting},
		{"openai ok", TTSSettings{Provider: ProviderOpenAI, Model: "tts-1", ApiKey: "sk"}, nil},
		{"elevenlabs no voice", TTSSettings{Provider: ProviderElevenLabs, ApiKey: "k"}, ErrMissingSetting},
		{"google ok", TTSSettings{Provider: ProviderGoogle}, nil},
		{"unknown", TTSSettings{Provider: "carrier-pigeon"}, ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Settings{TTSSettings: tt.tts}.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestLoadUsesConfigEnv(t *testing.T) {
	path := writeSettings(t, sampleSettings)
	t.Setenv("TTS_CONFIG", path)
	t.Setenv("TTS_RESPONSE_FORMAT", "wav")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderHTTP, settings.TTSSettings.Provider)
	assert.Equal(t, "wav", settings.TTSSettings.ResponseFormat)
	assert.Equal(t, "en", settings.TTSSettings.Language)
	assert.Equal(t, "auto", settings.Storage.S3.Region)
}

func TestLoadDefaultsFormat(t *testing.T) {
	t.Setenv("TTS_CONFIG", writeSettings(t, "TTSSettings:\n  ApiUrl: http://x\n  Model: tts-1\n"))

	settings, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mp3", settings.TTSSettings.ResponseFormat)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("TTS_CONFIG", writeSettings(t, "TTSSettings:\n  Model: tts-1\n"))

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSetting)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "sk-a****", mask("sk-abcdef"))
}

// inDir runs the rest of the test from a temp dir holding a .env file.
func inDir(t *testing.T, dotenv string) {
	t.Helper()
	dir := t.TempDir()
	if dotenv != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0644))
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDotEnv(t *testing.T) {
	inDir(t, "TTS_MODEL=from-dotenv\nTTS_API_KEY=dotenv-key\n")

	// registered so the value godotenv sets is undone after the test
	t.Setenv("TTS_API_KEY", "")
	require.NoError(t, os.Unsetenv("TTS_API_KEY"))

	t.Setenv("TTS_CONFIG", writeSettings(t, sampleSettings))
	t.Setenv("TTS_MODEL", "tts-1-hd")

	settings, err := Load()
	require.NoError(t, err)

	// real environment wins over .env
	assert.Equal(t, "tts-1-hd", settings.TTSSettings.Model)
	assert.Equal(t, "dotenv-key", settings.TTSSettings.ApiKey)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	inDir(t, "")
	t.Setenv("TTS_CONFIG", writeSettings(t, sampleSettings))

	_, err := Load()
	assert.NoError(t, err)
}

func TestLoadMalformedDotEnv(t *testing.T) {
	inDir(t, "lol$wut\n")
	t.Setenv("TTS_CONFIG", writeSettings(t, sampleSettings))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load .env")
}
