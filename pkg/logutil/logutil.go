// Package logutil configures the standard logrus logger for the command
// line tools.
package logutil

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/orandin/lumberjackrus"
	"github.com/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// Rotation settings of the optional log file.
const (
	FileMaxSize    = 100
	FileMaxBackups = 1
	FileMaxAge     = 1
)

// Config selects the level and destinations of the logger.
type Config struct {
	Level string
	File  string
	// Output defaults to a colour capable stderr, leaving stdout to the
	// command's own output.
	Output io.Writer
}

// Configure sets up the standard logger: level, coloured text on the
// terminal and, when File is set, a rotated JSON copy of every entry.
func Configure(c Config) error {
	level := log.InfoLevel
	if c.Level != "" {
		l, err := log.ParseLevel(c.Level)
		if err != nil {
			return errors.Wrapf(err, "log level %q", c.Level)
		}
		level = l
	}
	log.SetLevel(level)

	out := c.Output
	if out == nil {
		out = colorable.NewColorableStderr()
	}
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{ForceColors: c.Output == nil})

	if c.File == "" {
		return nil
	}
	hook, err := lumberjackrus.NewHook(
		&lumberjackrus.LogFile{
			Filename:   c.File,
			MaxSize:    FileMaxSize,
			MaxBackups: FileMaxBackups,
			MaxAge:     FileMaxAge,
			Compress:   true,
		},
		level,
		&log.JSONFormatter{},
		&lumberjackrus.LogFileOpts{},
	)
	if err != nil {
		return errors.Wrapf(err, "log file %s", c.File)
	}
	log.AddHook(hook)
	return nil
}

// FatalWithStackTrace logs err with the stack recorded by pkg/errors and
// exits.
func FatalWithStackTrace(err error) {
	log.Fatalf("%+v", err)
}

// Exit prints msg to stderr and exits with status 1, without a stack.
func Exit(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
