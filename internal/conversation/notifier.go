package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var (
	noticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7EC8E3"))
	urgentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier prints notifications through a PrintFunc. Urgent messages
// are also kept so a caller can show them again, e.g. after a redraw.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc

	mu     sync.Mutex
	urgent []string
}

// NewCLINotifier creates a stdout-based notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s", noticeStyle.Render(message))
	return nil
}

// NotifyUrgent prints an urgent notification in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Info("notify-urgent: %s", message)
	n.mu.Lock()
	n.urgent = append(n.urgent, message)
	n.mu.Unlock()
	n.printFn("%s", urgentStyle.Render(message))
	return nil
}

// Urgent returns every urgent message delivered so far.
func (n *CLINotifier) Urgent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.urgent...)
}
