package ws_game

import (
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type HubSuite struct {
	suite.Suite
}

func TestHubSuite(t *testing.T) {
	suite.RunSuite(t, new(HubSuite))
}

// drain empties a client's send buffer without touching the socket.
func drain(c *Client) []Message {
	var out []Message
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func (suite *HubSuite) TestBroadcastScopes(t provider.T) {
	t.Parallel()

	hub := NewHub()
	a := NewClient("conn-a", nil)
	b := NewClient("conn-b", nil)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe("ABC123", "conn-a")
	hub.Subscribe("ABC123", "conn-b")

	t.Run("ToOthers excludes the sender", func(t provider.T) {
		hub.ToOthers("ABC123", "conn-a", Message{Event: EventTurnEnded})

		assert.Empty(t, drain(a))
		msgs := drain(b)
		require.Len(t, msgs, 1)
		assert.Equal(t, EventTurnEnded, msgs[0].Event)
	})

	t.Run("ToAll includes the sender", func(t provider.T) {
		hub.ToAll("ABC123", Message{Event: EventGuessMade})

		require.Len(t, drain(a), 1)
		require.Len(t, drain(b), 1)
	})

	t.Run("ToClient addresses a single connection", func(t provider.T) {
		hub.ToClient("conn-a", Message{Event: EventPlayerJoined})

		require.Len(t, drain(a), 1)
		assert.Empty(t, drain(b))
	})

	t.Run("Unknown channel is a silent no-op", func(t provider.T) {
		hub.ToAll("GONE00", Message{Event: EventGameReset})
		hub.ToOthers("GONE00", "conn-a", Message{Event: EventGameReset})

		assert.Empty(t, drain(a))
		assert.Empty(t, drain(b))
	})
}

func (suite *HubSuite) TestUnsubscribe(t provider.T) {
	t.Parallel()

	hub := NewHub()
	a := NewClient("conn-a", nil)
	b := NewClient("conn-b", nil)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe("ABC123", "conn-a")
	hub.Subscribe("ABC123", "conn-b")

	hub.Unsubscribe("ABC123", "conn-b")
	hub.ToAll("ABC123", Message{Event: EventGameReset})

	require.Len(t, drain(a), 1)
	assert.Empty(t, drain(b))
}

func (suite *HubSuite) TestUnregister(t provider.T) {
	t.Parallel()

	hub := NewHub()
	a := NewClient("conn-a", nil)
	b := NewClient("conn-b", nil)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe("ABC123", "conn-a")
	hub.Subscribe("ABC123", "conn-b")

	hub.Unregister("conn-a")

	// Send channel is closed so the write pump stops.
	_, open := <-a.send
	assert.False(t, open)

	// Membership is gone from every channel.
	hub.ToAll("ABC123", Message{Event: EventGameReset})
	require.Len(t, drain(b), 1)

	// Double unregister must not panic.
	hub.Unregister("conn-a")
}

func (suite *HubSuite) TestSlowConsumer(t provider.T) {
	t.Parallel()

	hub := NewHub()
	a := NewClient("conn-a", nil)
	hub.Register(a)
	hub.Subscribe("ABC123", "conn-a")

	// Overflowing the buffer drops messages instead of blocking the caller.
	for i := 0; i < sendBuffer+5; i++ {
		hub.ToAll("ABC123", Message{Event: EventTurnEnded})
	}

	assert.Len(t, drain(a), sendBuffer)
}
