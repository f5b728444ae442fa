package ui

import (
	"fmt"
	"time"
)

// ChatMessage represents a single chat message.
type ChatMessage struct {
	Timestamp time.Time
	Channel   ChatChannel
	Sender    string
	Message   string
}

// ChatChannel represents the type of chat channel.
type ChatChannel uint8

const (
	ChatChannelNormal ChatChannel = iota
	ChatChannelSign               // Text read from a sign
	ChatChannelSystem             // Client notices: warps, connection
)

func (c ChatChannel) String() string {
	switch c {
	case ChatChannelSign:
		return "Sign"
	case ChatChannelSystem:
		return "System"
	}
	return "Normal"
}

// ChatBox keeps the most recent messages shown to the player.
type ChatBox struct {
	messages    []ChatMessage
	maxMessages int

	// Display settings
	ShowTimestamp bool
	ShowChannel   bool

	// Callbacks
	OnMessage func(msg ChatMessage)

	now func() time.Time
}

// NewChatBox creates a new chat box holding up to maxMessages entries.
func NewChatBox(maxMessages int) *ChatBox {
	if maxMessages <= 0 {
		maxMessages = 100
	}
	return &ChatBox{
		messages:    make([]ChatMessage, 0, maxMessages),
		maxMessages: maxMessages,
		ShowChannel: true,
		now:         time.Now,
	}
}

// AddMessage adds a new message to the chat.
func (cb *ChatBox) AddMessage(channel ChatChannel, sender, message string) {
	msg := ChatMessage{
		Timestamp: cb.now(),
		Channel:   channel,
		Sender:    sender,
		Message:   message,
	}

	cb.messages = append(cb.messages, msg)

	// Remove old messages if exceeding limit
	if len(cb.messages) > cb.maxMessages {
		cb.messages = cb.messages[1:]
	}

	if cb.OnMessage != nil {
		cb.OnMessage(msg)
	}
}

// AddSystemMessage adds a system message.
func (cb *ChatBox) AddSystemMessage(message string) {
	cb.AddMessage(ChatChannelSystem, "System", message)
}

// Messages returns the kept messages, oldest first.
func (cb *ChatBox) Messages() []ChatMessage {
	return cb.messages
}

// Last returns the newest message.
func (cb *ChatBox) Last() (ChatMessage, bool) {
	if len(cb.messages) == 0 {
		return ChatMessage{}, false
	}
	return cb.messages[len(cb.messages)-1], true
}

// Clear removes all messages.
func (cb *ChatBox) Clear() {
	cb.messages = cb.messages[:0]
}

// Lines formats the messages for display.
func (cb *ChatBox) Lines() []string {
	lines := make([]string, 0, len(cb.messages))
	for _, m := range cb.messages {
		lines = append(lines, cb.format(m))
	}
	return lines
}

func (cb *ChatBox) format(m ChatMessage) string {
	s := fmt.Sprintf("%s: %s", m.Sender, m.Message)
	if cb.ShowChannel {
		s = fmt.Sprintf("[%s] %s", m.Channel, s)
	}
	if cb.ShowTimestamp {
		s = m.Timestamp.Format("15:04:05") + " " + s
	}
	return s
}
