package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"ttspipe/app"
	"ttspipe/config"
	"ttspipe/platform"
	"ttspipe/player"
	"ttspipe/storage"
	"ttspipe/voice"
)

func newInterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			logrus.Debugln("interrupted")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func setupLogging(level string) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("level", level).WithError(err).Warnln("unknown log level, keeping info")
		return
	}
	logrus.SetLevel(lvl)
}

func main() {
	// stdout is reserved for help text and upload urls
	setupLogging(os.Getenv("TTS_LOG_LEVEL"))

	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Errorln("failed to load settings")
		os.Exit(app.ExitFailure)
	}
	setupLogging(settings.Logging.Level)

	profile, err := platform.Current(settings)
	if err != nil {
		logrus.WithError(err).Errorln("failed to resolve playback profile")
		os.Exit(app.ExitFailure)
	}

	synth, err := voice.New(settings.TTSSettings)
	if err != nil {
		logrus.WithError(err).Errorln("failed to create synthesizer")
		os.Exit(app.ExitFailure)
	}

	ctx, cancel := newInterruptContext(context.Background())

	runner := &app.App{
		Settings:    settings,
		Profile:     profile,
		Synthesizer: synth,
		Store:       storage.NewArtifacts(""),
		Player:      player.New(),
		NewUploader: func() (app.Uploader, error) {
			return storage.NewS3(settings.Storage.S3)
		},
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		Prog:        filepath.Base(os.Args[0]),
	}

	code := runner.Run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
