// Package logging sets up leveled, structured logging via logrus, with an
// optional file target that rotates through lumberjack — the same pair
// firestige-Otus wires for its own file appender (internal/log/appender_file.go).
package logging

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Target selects where log output is written.
type Target string

const (
	TargetStdout Target = "stdout"
	TargetFile   Target = "file"
)

// New builds a logrus.Logger writing to stdout or to a rotated file,
// depending on target. filename is only consulted for TargetFile.
func New(target Target, filename string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if target == TargetFile {
		log.SetOutput(&lumberjack.Logger{
			Filename:   filename,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	return log
}
