package player

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttspipe/config"
	"ttspipe/platform"
)

const track = "/tmp/my audio/speech.mp3"

func TestCommand(t *testing.T) {
	tests := []struct {
		name    string
		profile config.PlaybackProfile
		want    []string
	}{
		{
			"windows default",
			config.PlaybackProfile{Platform: platform.Windows, Command: "default"},
			[]string{"cmd", "/c", "start", "", track},
		},
		{
			"windows default any case",
			config.PlaybackProfile{Platform: platform.Windows, Command: "DEFAULT", Arguments: "ignored"},
			[]string{"cmd", "/c", "start", "", track},
		},
		{
			"windows custom",
			config.PlaybackProfile{Platform: platform.Windows, Command: "vlc.exe", Arguments: "--play-and-exit"},
			[]string{"vlc.exe", "--play-and-exit", track},
		},
		{
			"linux with arguments",
			config.PlaybackProfile{Platform: platform.Linux, Command: "ffplay", Arguments: "-nodisp  -autoexit"},
			[]string{"ffplay", "-nodisp", "-autoexit", track},
		},
		{
			"quoted argument",
			config.PlaybackProfile{Platform: platform.Linux, Command: "mpv", Arguments: `--title="My Player" --volume 50`},
			[]string{"mpv", "--title=My Player", "--volume", "50", track},
		},
		{
			"single quoted windows argument",
			config.PlaybackProfile{Platform: platform.Windows, Command: "vlc.exe", Arguments: `--meta-title 'Read aloud'`},
			[]string{"vlc.exe", "--meta-title", "Read aloud", track},
		},
		{
			"macos no arguments",
			config.PlaybackProfile{Platform: platform.MacOS, Command: "afplay"},
			[]string{"afplay", track},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Command(track, tt.profile)
			require.NoError(t, err)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd.Args)
		})
	}
}

func TestCommandUnsupportedPlatform(t *testing.T) {
	cmd, err := Command(track, config.PlaybackProfile{Platform: "plan9", Command: "play"})
	assert.NoError(t, err)
	assert.Nil(t, cmd)
}

func TestCommandUnbalancedQuote(t *testing.T) {
	cmd, err := Command(track, config.PlaybackProfile{Platform: platform.Linux, Command: "mpv", Arguments: `--title="My Player`})
	assert.Error(t, err)
	assert.Nil(t, cmd)
}

func TestOpenBadArgumentsIsWarning(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	called := false
	p := &Player{Start: func(cmd *exec.Cmd) error {
		called = true
		return nil
	}}

	assert.NotPanics(t, func() {
		p.Open(track, config.PlaybackProfile{Platform: platform.MacOS, Command: "afplay", Arguments: `-t "3`})
	})

	assert.False(t, called)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "failed to launch player", hook.LastEntry().Message)
}

func TestOpenLaunches(t *testing.T) {
	var launched [][]string
	p := &Player{Start: func(cmd *exec.Cmd) error {
		launched = append(launched, cmd.Args)
		return nil
	}}

	p.Open(track, config.PlaybackProfile{Platform: platform.Linux, Command: "mpg123", Arguments: "-q"})

	assert.Equal(t, [][]string{{"mpg123", "-q", track}}, launched)
}

func TestOpenFailureIsWarning(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	p := &Player{Start: func(cmd *exec.Cmd) error {
		return errors.New("exec: not found")
	}}

	assert.NotPanics(t, func() {
		p.Open(track, config.PlaybackProfile{Platform: platform.Linux, Command: "nope"})
	})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "failed to launch player", hook.LastEntry().Message)
}

func TestOpenMissingBinary(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	New().Open(track, config.PlaybackProfile{Platform: platform.Linux, Command: "ttspipe-no-such-player"})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestOpenUnsupportedPlatform(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	called := false
	p := &Player{Start: func(cmd *exec.Cmd) error {
		called = true
		return nil
	}}
	p.Open(track, config.PlaybackProfile{Platform: "plan9", Command: "play"})

	assert.False(t, called)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}
