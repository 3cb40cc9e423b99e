package voice

import (
	"context"
	"errors"
	"fmt"
	"os"

	htgotts "github.com/hegedustibor/htgo-tts"
	"github.com/sirupsen/logrus"

	"ttspipe/config"
)

// size of the mp3 google hands back when it refuses a line
const rejectedLineSize = 1685

// Google uses the translate TTS voice. It always produces mp3,
// whatever response format is configured.
type Google struct {
	Language string

	// Dir is where the scratch directory is made; empty means os.TempDir().
	Dir string
}

func (api *Google) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, &APIError{Provider: config.ProviderGoogle, Err: err}
	}

	dir, err := os.MkdirTemp(api.Dir, "ttspipe-google-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir; %w", err)
	}
	defer os.RemoveAll(dir)

	speech := htgotts.Speech{Folder: dir, Language: api.Language}
	path, err := speech.CreateSpeechFile(text, hashString(text))
	if err != nil {
		return nil, &APIError{Provider: config.ProviderGoogle, Err: err}
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized file; %w", err)
	}
	if len(audio) == rejectedLineSize {
		logrus.WithField("chars", len([]rune(text))).Infoln("htgotts returned bad MP3 file")
		return nil, &APIError{
			Provider: config.ProviderGoogle,
			Message:  "line too long",
			Rejected: true,
			Err:      errors.New("failed to gen speech - line too long"),
		}
	}

	return audio, nil
}
