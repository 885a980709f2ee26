package terminal

import (
	"strings"
	"sync"
	"time"
)

// MaxLines bounds a session's output buffer; the oldest lines are dropped first
const MaxLines = 1000

// DateLayout mirrors a browser's default locale date string
const DateLayout = "1/2/2006, 3:04:05 PM"

// Banner is the output of a fresh session
var Banner = []string{"Welcome to Web-Terminal!", "Type `help` for commands."}

// User is the identity reported by whoami
const User = "guest@web-os-pc"

var helpLines = []string{
	"Available commands:",
	"  `echo [message]` - Prints a message",
	"  `clear` - Clears the terminal",
	"  `date` - Displays current date and time",
	"  `whoami` - Shows current user",
	"  `about` - Information about this terminal",
}

var aboutLines = []string{
	"Web-Terminal v1.0",
	"A mock terminal for the Windows 11 Web OS project.",
}

// Session is one terminal window's output buffer
type Session struct {
	mu    sync.Mutex
	lines []string
	now   func() time.Time
}

// NewSession creates a session showing the banner
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	lines := make([]string, len(Banner))
	copy(lines, Banner)
	return &Session{lines: lines, now: now}
}

// Run interprets a command line. It returns the lines appended to the buffer
// and whether the buffer was cleared instead.
func (s *Session) Run(command string) ([]string, bool) {
	out := []string{"> " + command}

	switch strings.ToLower(strings.TrimSpace(command)) {
	case "help":
		out = append(out, helpLines...)
	case "clear":
		s.mu.Lock()
		s.lines = nil
		s.mu.Unlock()
		return nil, true
	case "date":
		out = append(out, s.now().Format(DateLayout))
	case "whoami":
		out = append(out, User)
	case "about":
		out = append(out, aboutLines...)
	default:
		if strings.HasPrefix(strings.ToLower(command), "echo ") {
			out = append(out, command[5:])
		} else {
			out = append(out, "Command not found: "+command)
		}
	}

	s.mu.Lock()
	s.lines = append(s.lines, out...)
	if over := len(s.lines) - MaxLines; over > 0 {
		s.lines = append([]string(nil), s.lines[over:]...)
	}
	s.mu.Unlock()

	return out, false
}

// Output returns a copy of the buffer
func (s *Session) Output() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}
