// Package player hands audio files to the operating system's player.
package player

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"

	"ttspipe/config"
	"ttspipe/platform"
)

// DefaultCommand on Windows opens the file with its associated application.
const DefaultCommand = "default"

// Command constants
const (
	CmdCommand     = "cmd"
	WindowsCmdFlag = "/c"
	StartCommand   = "start"
)

// Player launches playback and never waits for it to finish.
type Player struct {
	// Start launches cmd. It must not wait for the process to exit.
	Start func(cmd *exec.Cmd) error
}

func New() *Player {
	return &Player{Start: startDetached}
}

// Command builds the process that plays path with profile, or nil when
// the profile's platform has no way to open files. Arguments is split
// with shell quoting rules, so `--title="My Player"` stays one argument.
func Command(path string, profile config.PlaybackProfile) (*exec.Cmd, error) {
	switch profile.Platform {
	case platform.Windows:
		if strings.EqualFold(profile.Command, DefaultCommand) {
			// the empty argument is the window title start expects before a quoted path
			cmd := exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", path)
			hideWindow(cmd)
			return cmd, nil
		}
		return profileCommand(path, profile)
	case platform.Linux, platform.MacOS:
		return profileCommand(path, profile)
	default:
		return nil, nil
	}
}

func profileCommand(path string, profile config.PlaybackProfile) (*exec.Cmd, error) {
	args, err := shellwords.Parse(profile.Arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to split player arguments %q; %w", profile.Arguments, err)
	}
	args = append(args, path)
	return exec.Command(profile.Command, args...), nil
}

// Open plays path in the background. Failures are logged as warnings
// and never reach the caller.
func (p *Player) Open(path string, profile config.PlaybackProfile) {
	log := logrus.WithFields(logrus.Fields{
		"player": profile.Command,
		"file":   path,
	})

	cmd, err := Command(path, profile)
	if err != nil {
		log.WithError(err).Warnln("failed to launch player")
		return
	}
	if cmd == nil {
		logrus.WithField("platform", profile.Platform).Infoln("opening audio files is not supported on this platform")
		return
	}

	start := p.Start
	if start == nil {
		start = startDetached
	}
	if err := start(cmd); err != nil {
		log.WithError(err).Warnln("failed to launch player")
		return
	}

	log.Debugln("player launched")
}

// startDetached starts cmd and lets it outlive this process.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
