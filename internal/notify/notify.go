// Package notify raises desktop notifications when a watched dataset is reloaded.
package notify

import (
	"fmt"

	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/gen2brain/beeep"
)

// Notifier shows a message to the user. Alert is used when new data-quality
// warnings appeared.
type Notifier interface {
	Notify(title, message string) error
	Alert(title, message string) error
}

// Desktop sends notifications through the OS notification center.
type Desktop struct{}

// NewDesktop returns a notifier that posts as appName.
func NewDesktop(appName string) Desktop {
	beeep.AppName = appName
	return Desktop{}
}

func (Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

func (Desktop) Alert(title, message string) error {
	return beeep.Alert(title, message, "")
}

// Reloaded reports what changed between prev and cur. prev may be nil.
func Reloaded(n Notifier, prev, cur *monitor.Report) error {
	title := "uxlog"
	if cur.Source != "" {
		title = "uxlog · " + cur.Source
	}

	msg := fmt.Sprintf("%d rows, %d sessions", cur.Rows, cur.Overall.TotalSessions)
	if prev != nil {
		if d := cur.Rows - prev.Rows; d != 0 {
			msg += fmt.Sprintf(" (%+d rows)", d)
		}
	}

	added := warningCount(cur) - warningCount(prev)
	if added > 0 {
		return n.Alert(title, fmt.Sprintf("%s, %d new warnings", msg, added))
	}
	return n.Notify(title, msg)
}

func warningCount(r *monitor.Report) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, w := range r.Warnings {
		n += w.Count
	}
	return n
}
