package batch

import "fmt"

// ProgressEvent reports the state of one file in a batch.
type ProgressEvent struct {
	Path    string
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of a file within a batch.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressRejected ProgressStatus = "rejected"
	ProgressFailed   ProgressStatus = "failed"
)

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", event.Path)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", event.Path)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s", event.Path)
	case ProgressRejected:
		return fmt.Sprintf("  ✗ %s: %s", event.Path, event.Message)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Path, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Path)
	}
}
