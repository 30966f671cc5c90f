package assistant

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/lifecycle"
)

const (
	// Greeting is the first message of every conversation.
	Greeting = "您好！我是 HRPC 智慧助手，有什麼我可以幫您的嗎？"
	// ErrorReply is appended when the sender fails.
	ErrorReply = "抱歉，發生錯誤。"
)

// Role is the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one chat bubble.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Conversation is the chat widget state: the message list and a loading
// flag. Sender failures never escape; they become ErrorReply.
type Conversation struct {
	sender   Sender
	logger   *slog.Logger
	onChange func()

	mu       sync.Mutex
	messages []Message
	loading  bool
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ConversationOption {
	return func(c *Conversation) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOnChange registers a callback run after every change of the message
// list or the loading flag. It runs without the conversation lock held.
func WithOnChange(fn func()) ConversationOption {
	return func(c *Conversation) {
		c.onChange = fn
	}
}

// NewConversation starts a conversation with the greeting.
func NewConversation(sender Sender, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		sender:   sender,
		logger:   slog.Default(),
		messages: []Message{{Role: RoleModel, Text: Greeting}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Messages returns a copy of the message list.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Loading reports whether a reply is pending.
func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// begin appends the user message and raises the loading flag. It returns
// the trimmed text, or false when the input must be ignored.
func (c *Conversation) begin(text string) (string, bool) {
	text = strings.TrimSpace(text)
	c.mu.Lock()
	if text == "" || c.loading {
		c.mu.Unlock()
		return "", false
	}
	c.messages = append(c.messages, Message{Role: RoleUser, Text: text})
	c.loading = true
	c.mu.Unlock()
	c.changed()
	return text, true
}

func (c *Conversation) finish(ctx context.Context, text string) {
	reply, err := c.sender.Send(ctx, text)
	if err != nil {
		c.logger.Warn("assistant request failed", "error", err)
		reply = ErrorReply
	}
	c.mu.Lock()
	c.messages = append(c.messages, Message{Role: RoleModel, Text: reply})
	c.loading = false
	c.mu.Unlock()
	c.changed()
}

func (c *Conversation) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Send posts text and waits for the reply. Blank input, or input while a
// reply is pending, is ignored and reports false.
func (c *Conversation) Send(ctx context.Context, text string) bool {
	text, ok := c.begin(text)
	if !ok {
		return false
	}
	c.finish(ctx, text)
	return true
}

// SendAsync posts text and fetches the reply in the background. The
// returned channel is closed once the reply (or ErrorReply) is appended;
// it is nil when the input was ignored.
func (c *Conversation) SendAsync(ctx context.Context, text string) <-chan struct{} {
	text, ok := c.begin(text)
	if !ok {
		return nil
	}
	done := make(chan struct{})
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(done)
		c.finish(ctx, text)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		c.logger.Error("assistant worker failed", "error", err)
	}))
	return done
}
