package cli

import (
	"fmt"
	"io"
)

const usage = `Usage: %[1]s [--play] [--save] [--upload]
       %[1]s --playexisting <file>
       %[1]s --help

Reads text from standard input and converts it to speech.

Options:
  --play                  play the generated audio when it is ready
  --save                  copy the generated audio to ./output.mp3
  --upload                upload the generated audio to the configured S3 bucket
  --playexisting <file>   play an existing audio file, no synthesis
  -h, --help              show this help

Examples:
  echo "Hello world" | %[1]s --play
  cat notes.txt | %[1]s --save
  %[1]s --playexisting output.mp3

Settings are read from settings.yaml (or TTS_CONFIG) and TTS_* environment variables.
`

// Usage writes the help text for program name prog.
func Usage(w io.Writer, prog string) error {
	_, err := fmt.Fprintf(w, usage, prog)
	return err
}
