package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// MaxLogMessages is the number of entries the log viewer keeps.
const MaxLogMessages = 500

// LogMessage is one captured log entry.
type LogMessage struct {
	Time    time.Time
	Level   string // DEBUG, INFO, WARN, ERROR
	Message string
}

// LogBuffer collects log output for the log viewer. Loggers write JSON lines
// into it from any goroutine.
type LogBuffer struct {
	mu       sync.Mutex
	messages []LogMessage
	now      func() time.Time
}

// NewLogBuffer returns an empty buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{now: time.Now}
}

// Logger returns a logger that writes into b.
func (b *LogBuffer) Logger(prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(b, log.Options{
		Prefix:    prefix,
		Level:     level,
		Formatter: log.JSONFormatter,
	})
}

// Write implements io.Writer. Each call carries one JSON encoded entry.
func (b *LogBuffer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSpace(string(p)), "\n") {
		if line != "" {
			b.add(b.parse(line))
		}
	}
	return len(p), nil
}

func (b *LogBuffer) parse(line string) LogMessage {
	msg := LogMessage{Time: b.now(), Level: "INFO", Message: line}
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return msg
	}

	if lvl, ok := fields["level"].(string); ok {
		msg.Level = strings.ToUpper(lvl)
	}
	var sb strings.Builder
	if prefix, ok := fields["prefix"].(string); ok && prefix != "" {
		sb.WriteString(prefix)
		sb.WriteString(": ")
	}
	if text, ok := fields["msg"].(string); ok {
		sb.WriteString(text)
	}

	var keys []string
	for k := range fields {
		switch k {
		case "level", "prefix", "msg", "time":
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, fields[k])
	}
	msg.Message = sb.String()
	return msg
}

func (b *LogBuffer) add(msg LogMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
	if len(b.messages) > MaxLogMessages {
		b.messages = b.messages[len(b.messages)-MaxLogMessages:]
	}
}

// Messages returns a copy of the captured entries, oldest first.
func (b *LogBuffer) Messages() []LogMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]LogMessage, len(b.messages))
	copy(out, b.messages)
	return out
}
