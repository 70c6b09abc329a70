package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock discordgo session ---

type mockSession struct {
	sentMessages []sentMsg
	sendErr      error
}

type sentMsg struct {
	channelID string
	content   string
}

func (m *mockSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.sentMessages = append(m.sentMessages, sentMsg{channelID, content})
	return &discordgo.Message{ID: "msg-123", ChannelID: channelID}, m.sendErr
}

// --- Tests ---

func TestChannel_Notify_SendsToChannel(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given
	session := &mockSession{}
	n := NewChannel(session, "chan-1")

	// when
	err := n.Notify(context.Background(), "An issue was closed by bob")

	// then
	r.NoError(err)
	r.Len(session.sentMessages, 1)
	a.Equal("chan-1", session.sentMessages[0].channelID)
	a.Equal("An issue was closed by bob", session.sentMessages[0].content)
}

func TestChannel_Notify_ChunksLongMessages(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given
	session := &mockSession{}
	n := NewChannel(session, "chan-1")
	long := strings.Repeat("x", maxMessageLen*2+10)

	// when
	err := n.Notify(context.Background(), long)

	// then
	r.NoError(err)
	r.Len(session.sentMessages, 3)
	a.Len(session.sentMessages[0].content, maxMessageLen)
	a.Len(session.sentMessages[1].content, maxMessageLen)
	a.Len(session.sentMessages[2].content, 10)
}

func TestChannel_Notify_Error(t *testing.T) {
	session := &mockSession{sendErr: errors.New("missing access")}
	n := NewChannel(session, "chan-1")

	err := n.Notify(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending message")
}

func TestChunks_KeepsRunesWhole(t *testing.T) {
	a := assert.New(t)

	// "é" is two bytes; a 3-byte limit must not split the second one
	parts := chunks("éé", 3)

	a.Equal([]string{"é", "é"}, parts)
}
