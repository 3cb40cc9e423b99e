package cli

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingArgument = errors.New("missing argument")
)

// UsageError is a malformed command line. It is reported before any
// network call is made.
type UsageError struct {
	Flag string
	Err  error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Flag, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

type Mode int

const (
	ModeSynthesize Mode = iota
	ModePlayExisting
	ModeShowHelp
)

func (m Mode) String() string {
	switch m {
	case ModeSynthesize:
		return "synthesize"
	case ModePlayExisting:
		return "play-existing"
	case ModeShowHelp:
		return "help"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Intent is what one invocation should do. Path is only set for
// ModePlayExisting, the booleans only for ModeSynthesize.
type Intent struct {
	Mode   Mode
	Path   string
	Play   bool
	Save   bool
	Upload bool

	// Ignored holds tokens that matched no flag.
	Ignored []string
}

const (
	FlagHelp         = "--help"
	FlagHelpShort    = "-h"
	FlagPlay         = "--play"
	FlagSave         = "--save"
	FlagUpload       = "--upload"
	FlagPlayExisting = "--playexisting"
)

// Parse turns argv (without the program name) into an Intent.
//
// Help is only recognized as the first token. --playexisting ends
// parsing and discards any --play/--save seen before it. Unknown
// tokens are kept in Intent.Ignored and otherwise have no effect.
func Parse(args []string) (Intent, error) {
	if len(args) > 0 && isHelp(args[0]) {
		return Intent{Mode: ModeShowHelp}, nil
	}

	intent := Intent{Mode: ModeSynthesize}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case FlagPlayExisting:
			if i+1 >= len(args) {
				return Intent{}, &UsageError{Flag: FlagPlayExisting, Err: ErrMissingArgument}
			}
			return Intent{Mode: ModePlayExisting, Path: args[i+1], Ignored: intent.Ignored}, nil
		case FlagPlay:
			intent.Play = true
		case FlagSave:
			intent.Save = true
		case FlagUpload:
			intent.Upload = true
		default:
			intent.Ignored = append(intent.Ignored, args[i])
		}
	}
	return intent, nil
}

func isHelp(arg string) bool {
	return strings.EqualFold(arg, FlagHelp) || strings.EqualFold(arg, FlagHelpShort)
}
