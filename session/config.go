package session

import (
	"path"
	"strings"

	"github.com/wippyai/salience-go/callback"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
	"github.com/wippyai/salience-go/option"
)

// Mode selects the option preset the engine starts with.
type Mode int32

const (
	ModeDefault Mode = iota
	// ModeShortform tunes the engine for short texts such as tweets.
	ModeShortform
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeShortform:
		return "shortform"
	default:
		return "unknown"
	}
}

// ParseMode maps a configuration name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return ModeDefault, nil
	case "shortform", "short":
		return ModeShortform, nil
	default:
		return ModeDefault, errors.InvalidInput(errors.PhaseConfig, "unknown startup mode "+name)
	}
}

// Config describes how a session is opened.
type Config struct {
	// LicensePath is the license file, as the engine sees it.
	LicensePath string

	// DataDirectory is the engine's data directory.
	DataDirectory string

	// UserDirectory defaults to DataDirectory + "/user".
	UserDirectory string

	// LogPath enables the engine's startup log when set.
	LogPath string

	Mode     Mode
	Encoding codec.Encoding

	// Options are applied in order once the session is open.
	Options []option.Setting

	// Callback receives status notifications for operations whose context
	// carries no handler of its own.
	Callback callback.Handler
}

func (c Config) userDirectory() string {
	if c.UserDirectory != "" {
		return c.UserDirectory
	}
	return path.Join(c.DataDirectory, "user")
}

func (c Config) validate() error {
	if c.LicensePath == "" {
		return errors.InvalidInput(errors.PhaseConfig, "license path is required")
	}
	if c.DataDirectory == "" {
		return errors.InvalidInput(errors.PhaseConfig, "data directory is required")
	}
	for name, p := range map[string]string{"data": c.DataDirectory, "user": c.userDirectory()} {
		if len(p) >= layout.MaxPath {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(p).
				Detail("%s directory longer than %d bytes", name, layout.MaxPath-1).
				Build()
		}
	}
	if c.Mode != ModeDefault && c.Mode != ModeShortform {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(int32(c.Mode)).
			Detail("unknown startup mode").
			Build()
	}
	return nil
}
