package portfolio

import (
	"context"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/crud"
	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/store"
)

// MessageForm is empty: messages are created by the public contact form and
// are read-only in the console.
type MessageForm struct{}

type MessageKind struct{}

func (MessageKind) Collection() string { return content.MessagesCollection }

// Query lists newest first.
func (MessageKind) Query() store.Query {
	return store.Query{}.OrderedBy("createdAt", true)
}
func (MessageKind) Labels() crud.Labels {
	return crud.Labels{Singular: "Message", Plural: "messages"}
}
func (MessageKind) Decode(d store.Document) (content.Message, error) { return content.DecodeMessage(d) }
func (MessageKind) ID(m content.Message) string { return m.ID }
func (MessageKind) Blank() MessageForm { return MessageForm{} }
func (MessageKind) FormOf(content.Message) MessageForm { return MessageForm{} }

func (MessageKind) Fields(MessageForm) (store.Fields, error) {
	return nil, errs.Validation("", "messages are read-only")
}

type MessageManager = crud.Manager[content.Message, MessageForm]

func NewMessageManager(s store.Store, n crud.Notifier) *MessageManager {
	return crud.NewManager[content.Message, MessageForm](s, MessageKind{}, n)
}

// MarkRead sets read=true on message id and nothing else.
func MarkRead(ctx context.Context, m *MessageManager, id string) error {
	return m.Patch(ctx, id, store.Fields{"read": true}, "Message marked as read")
}

// Unread counts the unread messages among the loaded items.
func Unread(msgs []content.Message) int {
	n := 0
	for _, m := range msgs {
		if !m.Read {
			n++
		}
	}
	return n
}
