package notify

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

const maxMessageLen = 2000

// DiscordSession abstracts the discordgo.Session methods we need
type DiscordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Channel posts messages to a channel as a bot user.
type Channel struct {
	session   DiscordSession
	channelID string
}

// NewChannel creates a bot-token notifier for channelID.
func NewChannel(session DiscordSession, channelID string) *Channel {
	return &Channel{session: session, channelID: channelID}
}

// NewChannelFromToken opens a REST-only discordgo session; no gateway connection is made.
func NewChannelFromToken(token, channelID string) (*Channel, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "creating discord session")
	}
	return NewChannel(dg, channelID), nil
}

// Notify sends content to the channel, split into Discord-sized messages.
func (c *Channel) Notify(ctx context.Context, content string) error {
	for _, chunk := range chunks(content, maxMessageLen) {
		if _, err := c.session.ChannelMessageSend(c.channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return errors.Wrap(err, "sending message")
		}
	}
	return nil
}

// chunks splits s into pieces of at most n bytes without breaking UTF-8 sequences.
func chunks(s string, n int) []string {
	if s == "" {
		return []string{""}
	}
	var out []string
	for len(s) > n {
		cut := n
		for cut > 0 && !isRuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = n
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return append(out, s)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
