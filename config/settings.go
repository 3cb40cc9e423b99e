package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// FileName is the settings file looked up next to the executable
// and in the working directory.
const FileName = "settings.yaml"

const (
	ProviderHTTP       = "http"
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"
	ProviderGoogle     = "google"
)

const (
	defaultResponseFormat = "mp3"
	defaultLanguage       = "en"
	defaultProvider       = ProviderHTTP
)

// PlaybackProfile is the command used to open an audio file on one platform.
// Arguments is a raw fragment placed before the file path.
type PlaybackProfile struct {
	Platform  string `yaml:"-"`
	Command   string `yaml:"PlayerCommand"`
	Arguments string `yaml:"Arguments"`
}

type TTSSettings struct {
	ApiUrl         string        `yaml:"ApiUrl"`
	Model          string        `yaml:"Model"`
	ResponseFormat string        `yaml:"ResponseFormat"`
	Provider       string        `yaml:"Provider"`
	ApiKey         string        `yaml:"ApiKey"`
	Voice          string        `yaml:"Voice"`
	Language       string        `yaml:"Language"`
	Timeout        time.Duration `yaml:"Timeout"`
}

type Playback struct {
	Windows PlaybackProfile `yaml:"Windows"`
	Linux   PlaybackProfile `yaml:"Linux"`
	OSX     PlaybackProfile `yaml:"OSX"`
}

type S3Settings struct {
	Endpoint  string `yaml:"Endpoint"`
	Region    string `yaml:"Region"`
	Bucket    string `yaml:"Bucket"`
	AccessKey string `yaml:"AccessKey"`
	SecretKey string `yaml:"SecretKey"`
	PublicUrl string `yaml:"PublicUrl"`
	Prefix    string `yaml:"Prefix"`
}

// Configured reports whether enough of the S3 section is set to upload.
func (s S3Settings) Configured() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type StorageSettings struct {
	S3 S3Settings `yaml:"S3"`
}

type LoggingSettings struct {
	Level string `yaml:"Level"`
}

// Settings is resolved once at startup and passed by value afterwards.
type Settings struct {
	TTSSettings TTSSettings     `yaml:"TTSSettings"`
	Playback    Playback        `yaml:"Playback"`
	Storage     StorageSettings `yaml:"Storage"`
	Logging     LoggingSettings `yaml:"Logging"`
}

// Load builds the settings for this process: .env, then the settings
// file, then environment overrides, then defaults and validation.
func Load() (Settings, error) {
	// a missing .env is fine, real environment variables always win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to load .env; %w", err)
	}

	path := Path()
	settings, err := LoadFile(path)
	if err != nil {
		return Settings{}, err
	}

	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}
	settings.applyDefaults()

	logrus.WithFields(logrus.Fields{
		"file":     path,
		"provider": settings.TTSSettings.Provider,
		"url":      settings.TTSSettings.ApiUrl,
		"model":    settings.TTSSettings.Model,
		"format":   settings.TTSSettings.ResponseFormat,
		"key":      mask(settings.TTSSettings.ApiKey),
	}).Debugln("settings loaded")

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Path returns the settings file location. TTS_CONFIG wins, then a file
// next to the executable, then the working directory.
func Path() string {
	if path, ok := os.LookupEnv("TTS_CONFIG"); ok && path != "" {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return FileName
}

// LoadFile decodes a YAML settings file. A file that does not exist
// yields empty settings so the environment can supply everything.
func LoadFile(path string) (Settings, error) {
	var settings Settings

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.WithField("file", path).Debugln("no settings file, using environment only")
			return settings, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings file; %w", err)
	}

	if err := yaml.Unmarshal(file, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings file %s; %w", path, err)
	}
	return settings, nil
}

func (s *Settings) applyDefaults() {
	if s.TTSSettings.Provider == "" {
		s.TTSSettings.Provider = defaultProvider
	}
	if s.TTSSettings.ResponseFormat == "" {
		s.TTSSettings.ResponseFormat = defaultResponseFormat
	}
	if s.TTSSettings.Language == "" {
		s.TTSSettings.Language = defaultLanguage
	}
	if s.Storage.S3.Region == "" {
		s.Storage.S3.Region = "auto"
	}
}

// Validate checks the synthesis section for the selected provider.
// Playback profiles are checked per platform by the platform package.
func (s Settings) Validate() error {
	tts := s.TTSSettings
	switch tts.Provider {
	case ProviderHTTP:
		if tts.ApiUrl == "" {
			return fmt.Errorf("TTSSettings.ApiUrl; %w", ErrMissingSetting)
		}
		if tts.Model == "" {
			return fmt.Errorf("TTSSettings.Model; %w", ErrMissingSetting)
		}
	case ProviderOpenAI:
		if tts.ApiKey == "" {
			return fmt.Errorf("TTSSettings.ApiKey; %w", ErrMissingSetting)
		}
		if tts.Model == "" {
			return fmt.Errorf("TTSSettings.Model; %w", ErrMissingSetting)
		}
	case ProviderElevenLabs:
		if tts.ApiKey == "" {
			return fmt.Errorf("TTSSettings.ApiKey; %w", ErrMissingSetting)
		}
		if tts.Voice == "" {
			return fmt.Errorf("TTSSettings.Voice; %w", ErrMissingSetting)
		}
	case ProviderGoogle:
	default:
		return fmt.Errorf("%q; %w", tts.Provider, ErrUnknownProvider)
	}
	return nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
