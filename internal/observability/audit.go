package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// AuditEventType categorizes audit events.
type AuditEventType string

const (
	AuditEventRunStart  AuditEventType = "run.start"
	AuditEventRunEnd    AuditEventType = "run.end"
	AuditEventUnitWrite AuditEventType = "unit.write"
	AuditEventUnitError AuditEventType = "unit.error"
)

// AuditEvent is one line of the JSONL audit trail.
type AuditEvent struct {
	Timestamp   time.Time      `json:"timestamp"`
	EventType   AuditEventType `json:"event_type"`
	SessionID   string         `json:"session_id"`
	Unit        string         `json:"unit,omitempty"`
	Success     bool           `json:"success"`
	Duration    time.Duration  `json:"duration_ms,omitempty"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	ErrorDetail string         `json:"error_detail,omitempty"`
}

// AuditLogger appends audit events as JSON lines. A nil or disabled logger
// drops events.
type AuditLogger struct {
	mu        sync.Mutex
	writer    io.Writer
	sessionID string
	enabled   bool
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	// OutputPath is a file path or "stdout"/"stderr". Empty disables auditing.
	OutputPath string
	SessionID  string
}

// NewAuditLogger opens the audit destination.
func NewAuditLogger(config AuditConfig) (*AuditLogger, error) {
	if config.OutputPath == "" {
		return &AuditLogger{}, nil
	}

	var writer io.Writer
	switch config.OutputPath {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		writer = f
	}

	return newAuditLogger(writer, config.SessionID), nil
}

func newAuditLogger(w io.Writer, sessionID string) *AuditLogger {
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%d", time.Now().UnixNano())
	}
	return &AuditLogger{writer: w, sessionID: sessionID, enabled: true}
}

// Log writes an audit event.
func (l *AuditLogger) Log(event *AuditEvent) error {
	if l == nil || !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	_, err = fmt.Fprintf(l.writer, "%s\n", data)
	return err
}

// LogRunStart records the start of a split run.
func (l *AuditLogger) LogRunStart(source string, units int) {
	l.Log(&AuditEvent{
		EventType: AuditEventRunStart,
		Success:   true,
		Message:   fmt.Sprintf("Splitting %s", source),
		Details: map[string]any{
			"source":     source,
			"unit_count": units,
		},
	})
}

// LogUnitWrite records a generated file.
func (l *AuditLogger) LogUnitWrite(unit, path, outcome string, size int, dropped []string, duration time.Duration) {
	details := map[string]any{
		"path":    path,
		"outcome": outcome,
		"size":    size,
	}
	if len(dropped) > 0 {
		details["dropped"] = dropped
	}
	l.Log(&AuditEvent{
		EventType: AuditEventUnitWrite,
		Unit:      unit,
		Success:   true,
		Duration:  duration,
		Message:   fmt.Sprintf("Generated file: %s", path),
		Details:   details,
	})
}

// LogUnitError records a unit that could not be produced.
func (l *AuditLogger) LogUnitError(unit string, err error) {
	l.Log(&AuditEvent{
		EventType:   AuditEventUnitError,
		Unit:        unit,
		Success:     false,
		Message:     fmt.Sprintf("Unit %s failed", unit),
		ErrorDetail: err.Error(),
	})
}

// LogRunEnd records the end of a split run.
func (l *AuditLogger) LogRunEnd(written, failed int, duration time.Duration) {
	l.Log(&AuditEvent{
		EventType: AuditEventRunEnd,
		Success:   failed == 0,
		Duration:  duration,
		Message:   fmt.Sprintf("Split finished: %d written, %d failed", written, failed),
		Details: map[string]any{
			"written": written,
			"failed":  failed,
		},
	})
}

// Close closes the audit logger (if using a file).
func (l *AuditLogger) Close() error {
	if l == nil {
		return nil
	}
	if closer, ok := l.writer.(io.Closer); ok {
		if closer != os.Stdout && closer != os.Stderr {
			return closer.Close()
		}
	}
	return nil
}
