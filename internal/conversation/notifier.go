package conversation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF")).Bold(true)
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier prints order and checkout notices to the terminal.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a terminal notifier. If printFn is nil, notices
// go to stdout.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a normal notice.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s", noticeStyle.Render("🛒 "+message))
	return nil
}

// NotifyUrgent prints a warning, e.g. when the agent could not be reached.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Warn("notify-urgent: %s", message)
	n.printFn("%s", urgentStyle.Render("⚠ "+message))
	return nil
}
