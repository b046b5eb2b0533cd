package folio

import "time"

// Logger is the leveled logger folio writes to. *log.Logger from
// github.com/labstack/gommon satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// BuildOptions tunes a single build.
type BuildOptions struct {
	SkipOG  bool // do not render OG cards
	NoCache bool // ignore persisted cards and render every one
}

// BuildReport summarizes a finished build.
type BuildReport struct {
	ID        string
	Pages     int
	Images    int // OG cards written
	Degraded  int // cards that fell back to the placeholder
	Cached    int // cards reused from the store
	Heroes    int // hero images processed
	Bytes     int64
	StartedAt time.Time
	Duration  time.Duration
}
