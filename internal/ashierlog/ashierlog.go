// Package ashierlog configures the structured logger shared across
// Ashier's runtime packages. Logging is strictly diagnostic: user-facing
// configuration errors are reported through ashier.Sink, never through
// this package.
package ashierlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a component-scoped logger writing to stderr. Color is
// enabled only when stderr is a terminal, the same TTY-detection idiom
// used for ANSI output elsewhere in the corpus this tool was built
// against (colorEnabled()-style: NO_COLOR and TERM=dumb both disable
// it too).
func New(component string) *logrus.Entry {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors: !colorEnabled(),
		FullTimestamp: true,
	})
	if lvl, err := logrus.ParseLevel(os.Getenv("ASHIER_LOG_LEVEL")); err == nil {
		base.SetLevel(lvl)
	} else {
		base.SetLevel(logrus.InfoLevel)
	}
	return base.WithField("component", component)
}

// SetLevel adjusts the logger level after construction, used by the CLI's
// --log-level flag.
func SetLevel(entry *logrus.Entry, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	entry.Logger.SetLevel(lvl)
	return nil
}

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
