// Package notify delivers digest messages to a chat platform. It is
// send-only: the service pushes, it never listens.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zulandar/sprintdeck/internal/config"
)

// Message is one outbound digest.
type Message struct {
	Title  string
	Body   string
	Fields []Field
}

// Field is a key-value pair rendered alongside the message body.
type Field struct {
	Name  string
	Value string
}

// Adapter is the interface platform-specific senders implement.
type Adapter interface {
	// Send delivers a message to the configured channel.
	Send(ctx context.Context, msg Message) error

	// Close releases the platform connection.
	Close() error
}

// New builds the adapter named by configuration. Returns nil when no
// platform is configured; callers treat a nil Adapter as "notifications off".
func New(cfg config.NotifyConfig) (Adapter, error) {
	switch strings.ToLower(cfg.Platform) {
	case "":
		return nil, nil
	case "slack":
		return NewSlack(SlackOpts{Token: cfg.Token, ChannelID: cfg.Channel})
	case "discord":
		return NewDiscord(DiscordOpts{Token: cfg.Token, ChannelID: cfg.Channel})
	default:
		return nil, fmt.Errorf("notify: unknown platform %q", cfg.Platform)
	}
}
