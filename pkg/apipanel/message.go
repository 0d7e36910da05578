package apipanel

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/dshills/canvasharness/pkg/properties"
)

const (
	messageIDPrefix     = "harness-message-"
	defaultDismissLabel = "Dismiss"
)

// DefaultMessageLink is appended when the "append link" toggle is on and
// no link was configured.
var DefaultMessageLink = canvas.MessageLink{
	Text: "Read more",
	URL:  "https://github.com/dshills/canvasharness",
}

// MessageBuilder turns the panel's message fields into notification
// messages. Each builder numbers its messages from zero; numbers are never
// reused or reset.
type MessageBuilder struct {
	next            int
	now             func() time.Time
	timestampLayout string
	link            canvas.MessageLink
	dismissLabel    string
	callback        func(messageID string)
}

// MessageOption configures a MessageBuilder
type MessageOption func(*MessageBuilder)

// WithClock sets the time source used for timestamps
func WithClock(now func() time.Time) MessageOption {
	return func(b *MessageBuilder) {
		b.now = now
	}
}

// WithTimestampLayout sets the time layout used for timestamps
func WithTimestampLayout(layout string) MessageOption {
	return func(b *MessageBuilder) {
		if layout != "" {
			b.timestampLayout = layout
		}
	}
}

// WithLink sets the hyperlink appended by the "append link" toggle
func WithLink(link canvas.MessageLink) MessageOption {
	return func(b *MessageBuilder) {
		if link.URL != "" {
			b.link = link
		}
	}
}

// WithCallback sets the function attached by the "attach callback" toggle
func WithCallback(fn func(messageID string)) MessageOption {
	return func(b *MessageBuilder) {
		b.callback = fn
	}
}

// NewMessageBuilder creates a builder
func NewMessageBuilder(opts ...MessageOption) *MessageBuilder {
	b := &MessageBuilder{
		now:             time.Now,
		timestampLayout: time.DateTime,
		link:            DefaultMessageLink,
		dismissLabel:    defaultDismissLabel,
		callback: func(messageID string) {
			log.Printf("apipanel: notification message %s clicked", messageID)
		},
	}
	b.Configure(opts...)
	return b
}

// Configure applies options to an existing builder. Message numbering is
// not affected.
func (b *MessageBuilder) Configure(opts ...MessageOption) {
	for _, opt := range opts {
		opt(b)
	}
}

// ApplySettings takes the timestamp layout and link from the harness
// settings. A blank link URL restores DefaultMessageLink.
func (b *MessageBuilder) ApplySettings(s properties.Settings) {
	link := DefaultMessageLink
	if s.LinkURL != "" {
		link.URL = s.LinkURL
		if s.LinkText != "" {
			link.Text = s.LinkText
		}
	}
	b.Configure(WithTimestampLayout(s.TimestampLayout), WithLink(link))
}

// Build creates the next message from the panel fields
func (b *MessageBuilder) Build(f MessageFields) canvas.NotificationMessage {
	id := messageIDPrefix + strconv.Itoa(b.next)
	b.next++

	msgType := f.Type
	if msgType == "" {
		msgType = canvas.MessageInfo
	}

	msg := canvas.NotificationMessage{
		ID:       id,
		Type:     msgType,
		Title:    optionalText(f.Title),
		Subtitle: optionalText(f.Subtitle),
		Content:  f.Content,
	}

	if f.AppendLink {
		link := b.link
		msg.Link = &link
	}
	if f.AppendTimestamp {
		ts := b.now().Format(b.timestampLayout)
		msg.Timestamp = &ts
	}
	if f.AttachCallback {
		msg.Callback = b.callback
	}
	if f.CloseMessage {
		msg.CloseMessage = b.dismissLabel
	}

	return msg
}

// optionalText returns nil for blank input so renderers can omit the element
func optionalText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
