package diag

import "fmt"

// Level is the parsing engine's native diagnostic vocabulary.
type Level uint8

const (
	LevelBug Level = iota
	LevelFatal
	LevelError
	LevelWarning
	LevelNote
	LevelHelp
	LevelCancelled
)

func (l Level) String() string {
	switch l {
	case LevelBug:
		return "bug"
	case LevelFatal:
		return "fatal"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	case LevelCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// advisory reports whether the level only carries supplementary text.
func (l Level) advisory() bool {
	return l == LevelNote || l == LevelHelp
}

// Severity is the normalized three-level classification written to the wire.
type Severity uint8

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// SeverityOf maps an engine level onto a Severity. Bug and Cancelled have no
// document-level representation and abort the process, as does any level
// outside the known vocabulary.
func SeverityOf(l Level) Severity {
	switch l {
	case LevelNote, LevelHelp:
		return SeverityOK
	case LevelWarning:
		return SeverityWarning
	case LevelError, LevelFatal:
		return SeverityError
	case LevelBug:
		panic(&AbortError{Reason: "engine reported an internal bug"})
	case LevelCancelled:
		panic(&AbortError{Reason: "engine reported a cancelled parse"})
	}
	panic(&AbortError{Reason: "unknown diagnostic " + l.String()})
}

// AbortError is the panic value for conditions that must terminate the
// process instead of producing a document.
type AbortError struct {
	Reason string
}

func (e *AbortError) Error() string {
	return "abort: " + e.Reason
}
