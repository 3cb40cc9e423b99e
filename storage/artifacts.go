package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	// ArtifactName is the fixed file name used for every run.
	ArtifactName = "speech.mp3"

	// OutputName is where --save copies the artifact, relative to the working directory.
	OutputName = "output.mp3"
)

// IOError is a failed write of the artifact or one of its copies.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s; %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Artifact is the audio produced by one synthesis call.
type Artifact struct {
	Path string
	Data []byte
}

// Artifacts writes synthesized audio to a fixed file in Dir.
// Each run overwrites the previous one, so it is not safe for
// concurrent processes sharing Dir.
type Artifacts struct {
	Dir string
}

// NewArtifacts stores into dir, or the system temp dir when dir is empty.
func NewArtifacts(dir string) *Artifacts {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Artifacts{Dir: dir}
}

// Path is where Persist writes.
func (s *Artifacts) Path() string {
	return filepath.Join(s.Dir, ArtifactName)
}

// Persist writes data to the artifact path, truncating any earlier file.
func (s *Artifacts) Persist(data []byte) (Artifact, error) {
	path := s.Path()
	if err := writeFile(path, data); err != nil {
		return Artifact{}, &IOError{Op: "write", Path: path, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debugln("artifact written")

	return Artifact{Path: path, Data: data}, nil
}

// CopyTo duplicates the artifact to outputPath, replacing whatever is there.
func (s *Artifacts) CopyTo(artifact Artifact, outputPath string) error {
	src, err := os.Open(artifact.Path)
	if err != nil {
		return &IOError{Op: "open", Path: artifact.Path, Err: err}
	}
	defer src.Close()

	dst, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &IOError{Op: "create", Path: outputPath, Err: err}
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return &IOError{Op: "copy to", Path: outputPath, Err: err}
	}
	if err := dst.Close(); err != nil {
		return &IOError{Op: "close", Path: outputPath, Err: err}
	}

	logrus.WithField("path", outputPath).Debugln("artifact copied")
	return nil
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
