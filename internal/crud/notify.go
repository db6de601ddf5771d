package crud

import (
	"sync"

	"github.com/devfolio/devfolio/pkg/logger"
)

type Level string

const (
	Success Level = "success"
	Failure Level = "error"
)

// Notice is a user-facing toast.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Notifier receives every outcome the manager reports.
type Notifier interface {
	Notify(Notice)
}

// Notices collects notices for rendering at the end of a request.
type Notices struct {
	mu   sync.Mutex
	list []Notice
}

func (n *Notices) Notify(x Notice) {
	n.mu.Lock()
	n.list = append(n.list, x)
	n.mu.Unlock()
}

func (n *Notices) List() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.list...)
}

// LogNotifier writes failures at error level and successes at debug level.
type LogNotifier struct{}

func (LogNotifier) Notify(x Notice) {
	if x.Level == Failure {
		logger.Errorf("notice: %s", x.Text)
		return
	}
	logger.Debugf("notice: %s", x.Text)
}

// Notifiers fans a notice out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) Notify(x Notice) {
	for _, n := range ns {
		if n != nil {
			n.Notify(x)
		}
	}
}
