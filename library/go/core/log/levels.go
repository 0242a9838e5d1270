package log

import (
	"fmt"
	"strings"
)

// Level of logging
type Level int

// Standard log levels
const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	maxLevel
)

// String values for standard log levels
const (
	TraceString = "trace"
	DebugString = "debug"
	InfoString  = "info"
	WarnString  = "warn"
	ErrorString = "error"
	FatalString = "fatal"
)

var levelNames = [maxLevel]string{
	TraceLevel: TraceString,
	DebugLevel: DebugString,
	InfoLevel:  InfoString,
	WarnLevel:  WarnString,
	ErrorLevel: ErrorString,
	FatalLevel: FatalString,
}

// String implements Stringer interface for Level
func (l Level) String() string {
	if l < 0 || l >= maxLevel {
		return fmt.Sprintf("Level(%d)", int(l))
	}

	return levelNames[l]
}

// MarshalText marshals level to text
func (l Level) MarshalText() ([]byte, error) {
	if l < 0 || l >= maxLevel {
		return nil, fmt.Errorf("level value (%d) is not in the allowed range (0-%d)", l, maxLevel-1)
	}

	return []byte(l.String()), nil
}

// UnmarshalText unmarshals level from text
func (l *Level) UnmarshalText(text []byte) error {
	level, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = level

	return nil
}

// ParseLevel parses log level from string, case-insensitively.
func ParseLevel(l string) (Level, error) {
	lower := strings.ToLower(strings.TrimSpace(l))
	for i, name := range levelNames {
		if name == lower {
			return Level(i), nil
		}
	}

	return FatalLevel, fmt.Errorf("unknown log level: %s", l)
}
