// Package app runs one invocation of the tool: parse the command line,
// turn standard input into speech, then save, upload or play the result.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"ttspipe/cli"
	"ttspipe/config"
	"ttspipe/storage"
	"ttspipe/voice"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrNoUploader   = errors.New("no uploader configured")
)

// Opener plays a file in the background and never reports failure.
type Opener interface {
	Open(path string, profile config.PlaybackProfile)
}

// Uploader publishes a finished artifact.
type Uploader interface {
	Key(format string) string
	StreamUpload(ctx context.Context, stream io.Reader, key string) error
	URL(key string) string
}

type App struct {
	Settings    config.Settings
	Profile     config.PlaybackProfile
	Synthesizer voice.Synthesizer
	Store       *storage.Artifacts
	Player      Opener

	// NewUploader is only called for --upload, so runs without it
	// never need storage settings.
	NewUploader func() (Uploader, error)

	Stdin  io.Reader
	Stdout io.Writer

	// Interactive is set when Stdin is a terminal rather than a pipe.
	Interactive bool

	// OutputPath is the --save target. Defaults to storage.OutputName.
	OutputPath string
	Prog       string
}

// Run executes args (without the program name) and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	intent, err := cli.Parse(args)
	if err != nil {
		logrus.WithError(err).Errorln("invalid arguments")
		return ExitFailure
	}

	if len(intent.Ignored) > 0 {
		logrus.WithField("args", intent.Ignored).Debugln("ignoring unknown arguments")
	}

	switch intent.Mode {
	case cli.ModeShowHelp:
		if err := cli.Usage(a.Stdout, a.prog()); err != nil {
			logrus.WithError(err).Errorln("failed to print usage")
			return ExitFailure
		}
		return ExitOK
	case cli.ModePlayExisting:
		if err := a.playExisting(intent.Path); err != nil {
			logrus.WithField("path", intent.Path).WithError(err).Errorln("cannot play existing file")
			return ExitFailure
		}
		return ExitOK
	}

	if err := a.synthesize(ctx, intent); err != nil {
		logrus.WithError(err).Errorln("text to speech failed")
		return ExitFailure
	}
	return ExitOK
}

func (a *App) playExisting(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s; %w", path, ErrFileNotFound)
		}
		return fmt.Errorf("failed to stat %s; %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory; %w", path, ErrFileNotFound)
	}

	a.Player.Open(path, a.Profile)
	return nil
}

func (a *App) synthesize(ctx context.Context, intent cli.Intent) error {
	if a.Interactive {
		logrus.Infoln("reading text from the terminal, finish with an end-of-file (Ctrl-D, or Ctrl-Z then Enter on windows)")
	}

	input, err := io.ReadAll(a.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin; %w", err)
	}

	text := strings.TrimSpace(string(input))
	if text == "" {
		logrus.Infoln("no input provided")
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"chars":  len(text),
		"play":   intent.Play,
		"save":   intent.Save,
		"upload": intent.Upload,
	}).Debugln("synthesizing")

	// resolve the uploader first so a missing bucket fails before we pay for synthesis
	var uploader Uploader
	if intent.Upload {
		uploader, err = a.uploader()
		if err != nil {
			return err
		}
	}

	audio, err := a.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		return err
	}

	artifact, err := a.Store.Persist(audio)
	if err != nil {
		return err
	}

	if intent.Save {
		if err := a.Store.CopyTo(artifact, a.outputPath()); err != nil {
			return err
		}
		logrus.WithField("path", a.outputPath()).Infoln("audio saved")
	}

	if uploader != nil {
		key := uploader.Key(a.Settings.TTSSettings.ResponseFormat)
		if err := uploader.StreamUpload(ctx, bytes.NewReader(artifact.Data), key); err != nil {
			return fmt.Errorf("failed to upload %s; %w", key, err)
		}
		fmt.Fprintln(a.Stdout, uploader.URL(key))
	}

	if intent.Play {
		a.Player.Open(artifact.Path, a.Profile)
	}

	return nil
}

func (a *App) uploader() (Uploader, error) {
	if a.NewUploader == nil {
		return nil, fmt.Errorf("%w; %w", ErrNoUploader, config.ErrMissingStorage)
	}
	return a.NewUploader()
}

func (a *App) outputPath() string {
	if a.OutputPath == "" {
		return storage.OutputName
	}
	return a.OutputPath
}

func (a *App) prog() string {
	if a.Prog == "" {
		return "ttspipe"
	}
	return a.Prog
}
