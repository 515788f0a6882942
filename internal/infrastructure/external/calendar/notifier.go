package calendar

import (
	"context"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TerminalNotifier is the CLI-side Notifier: it records scheduled reminders
// and announces them through the logger. Permission is always granted, the
// terminal is ours.
type TerminalNotifier struct {
	logger *zap.Logger

	mu        sync.Mutex
	nextID    int
	scheduled map[int]scheduledReminder
}

type scheduledReminder struct {
	title string
	body  string
	at    time.Time
}

// NewTerminalNotifier creates a notifier backed by the process logger
func NewTerminalNotifier(logger *zap.Logger) *TerminalNotifier {
	return &TerminalNotifier{
		logger:    logger,
		scheduled: make(map[int]scheduledReminder),
	}
}

// RequestPermission always grants
func (n *TerminalNotifier) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

// Schedule records the reminder and returns its notification id
func (n *TerminalNotifier) Schedule(ctx context.Context, title, body string, at time.Time) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.scheduled[n.nextID] = scheduledReminder{title: title, body: body, at: at}
	n.logger.Info("🔔 reminder scheduled",
		zap.Int("notification_id", n.nextID),
		zap.String("title", title),
		zap.Time("at", at),
	)
	return n.nextID, nil
}

// Cancel forgets a scheduled reminder. Unknown ids are fine: the reminder
// may have fired or belong to a previous run.
func (n *TerminalNotifier) Cancel(ctx context.Context, notificationID int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if r, ok := n.scheduled[notificationID]; ok {
		delete(n.scheduled, notificationID)
		n.logger.Info("🔕 reminder cancelled", zap.Int("notification_id", notificationID), zap.String("title", r.title))
	}
	return nil
}

// BrowserOpener opens URLs with the platform's default browser
type BrowserOpener struct{}

// Open launches the URL via the OS opener command
func (BrowserOpener) Open(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
