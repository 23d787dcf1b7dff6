package infra_memory_room

import (
	"context"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/faceoff-game/server/internal/model"
	usecase_room "github.com/faceoff-game/server/internal/usecase/room"
)

type MemoryRoomSuite struct {
	suite.Suite
}

func TestMemoryRoomSuite(t *testing.T) {
	suite.RunSuite(t, new(MemoryRoomSuite))
}

func (suite *MemoryRoomSuite) TestCreate(t provider.T) {
	t.Parallel()

	t.Run("Should store a fresh room with the creator as host", func(t provider.T) {
		driver := New()
		ctx := context.Background()

		err := driver.Create(ctx, model.NewRoom("ABC123", "conn-a"))
		assert.NoError(t, err)

		room, err := driver.Get(ctx, "ABC123")
		assert.NoError(t, err)
		assert.Equal(t, []string{"conn-a"}, room.Players)
		assert.Equal(t, "conn-a", room.Host)
		assert.Empty(t, room.RematchRequests)
	})

	t.Run("Should reject duplicate codes", func(t provider.T) {
		driver := New()
		ctx := context.Background()

		assert.NoError(t, driver.Create(ctx, model.NewRoom("ABC123", "conn-a")))
		err := driver.Create(ctx, model.NewRoom("ABC123", "conn-b"))
		assert.ErrorIs(t, err, usecase_room.ErrCodeConflict)
	})
}

func (suite *MemoryRoomSuite) TestAppendPlayer(t provider.T) {
	t.Parallel()

	t.Run("Should append the second participant", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		assert.NoError(t, driver.Create(ctx, model.NewRoom("ABC123", "conn-a")))

		room, err := driver.AppendPlayer(ctx, "ABC123", "conn-b")
		assert.NoError(t, err)
		assert.Equal(t, []string{"conn-a", "conn-b"}, room.Players)
		assert.Equal(t, "conn-a", room.Host)
	})

	t.Run("Should fail on unknown code", func(t provider.T) {
		driver := New()
		_, err := driver.AppendPlayer(context.Background(), "NOPE00", "conn-b")
		assert.ErrorIs(t, err, usecase_room.ErrRoomNotFound)
	})

	t.Run("Should fail once the room holds two players", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		assert.NoError(t, driver.Create(ctx, model.NewRoom("ABC123", "conn-a")))
		_, err := driver.AppendPlayer(ctx, "ABC123", "conn-b")
		assert.NoError(t, err)

		_, err = driver.AppendPlayer(ctx, "ABC123", "conn-c")
		assert.ErrorIs(t, err, usecase_room.ErrRoomFull)
	})
}

func (suite *MemoryRoomSuite) TestAddRematchRequest(t provider.T) {
	t.Parallel()

	fullRoom := func(t provider.T, driver *Driver) {
		ctx := context.Background()
		assert.NoError(t, driver.Create(ctx, model.NewRoom("ABC123", "conn-a")))
		_, err := driver.AppendPlayer(ctx, "ABC123", "conn-b")
		assert.NoError(t, err)
	}

	t.Run("Should confirm only after both distinct participants requested", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		fullRoom(t, driver)

		confirmed, err := driver.AddRematchRequest(ctx, "ABC123", "conn-a")
		assert.NoError(t, err)
		assert.False(t, confirmed)

		confirmed, err = driver.AddRematchRequest(ctx, "ABC123", "conn-b")
		assert.NoError(t, err)
		assert.True(t, confirmed)

		// Confirmation resets the set atomically.
		room, err := driver.Get(ctx, "ABC123")
		assert.NoError(t, err)
		assert.Empty(t, room.RematchRequests)
	})

	t.Run("Should treat duplicate requests as idempotent", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		fullRoom(t, driver)

		for i := 0; i < 3; i++ {
			confirmed, err := driver.AddRematchRequest(ctx, "ABC123", "conn-a")
			assert.NoError(t, err)
			assert.False(t, confirmed)
		}

		room, err := driver.Get(ctx, "ABC123")
		assert.NoError(t, err)
		assert.Len(t, room.RematchRequests, 1)
	})

	t.Run("Should never confirm while the room has a single player", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		assert.NoError(t, driver.Create(ctx, model.NewRoom("ABC123", "conn-a")))

		confirmed, err := driver.AddRematchRequest(ctx, "ABC123", "conn-a")
		assert.NoError(t, err)
		assert.False(t, confirmed)
	})

	t.Run("Should reject requests from outsiders", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		fullRoom(t, driver)

		_, err := driver.AddRematchRequest(ctx, "ABC123", "conn-z")
		assert.ErrorIs(t, err, usecase_room.ErrNotParticipant)

		room, err := driver.Get(ctx, "ABC123")
		assert.NoError(t, err)
		assert.Empty(t, room.RematchRequests)
	})

	t.Run("Should require fresh consent after a clear", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		fullRoom(t, driver)

		_, err := driver.AddRematchRequest(ctx, "ABC123", "conn-a")
		assert.NoError(t, err)
		assert.NoError(t, driver.ClearRematchRequests(ctx, "ABC123"))

		confirmed, err := driver.AddRematchRequest(ctx, "ABC123", "conn-b")
		assert.NoError(t, err)
		assert.False(t, confirmed)
	})
}

func (suite *MemoryRoomSuite) TestDelete(t provider.T) {
	t.Parallel()

	t.Run("Should make the code joinable never again", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		assert.NoError(t, driver.Create(ctx, model.NewRoom("ABC123", "conn-a")))

		assert.NoError(t, driver.Delete(ctx, "ABC123"))
		_, err := driver.AppendPlayer(ctx, "ABC123", "conn-b")
		assert.ErrorIs(t, err, usecase_room.ErrRoomNotFound)
	})

	t.Run("Should report unknown codes", func(t provider.T) {
		driver := New()
		assert.ErrorIs(t, driver.Delete(context.Background(), "NOPE00"), usecase_room.ErrRoomNotFound)
	})
}

func (suite *MemoryRoomSuite) TestDeleteByPlayer(t provider.T) {
	t.Parallel()

	t.Run("Should remove every room referencing the connection", func(t provider.T) {
		driver := New()
		ctx := context.Background()
		assert.NoError(t, driver.Create(ctx, model.NewRoom("AAA111", "conn-a")))
		assert.NoError(t, driver.Create(ctx, model.NewRoom("BBB222", "conn-a")))
		assert.NoError(t, driver.Create(ctx, model.NewRoom("CCC333", "conn-b")))

		codes, err := driver.DeleteByPlayer(ctx, "conn-a")
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"AAA111", "BBB222"}, codes)

		count, err := driver.Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Should be a no-op for unknown connections", func(t provider.T) {
		driver := New()
		codes, err := driver.DeleteByPlayer(context.Background(), "conn-z")
		assert.NoError(t, err)
		assert.Empty(t, codes)
	})
}

func (suite *MemoryRoomSuite) TestDeleteExpired(t provider.T) {
	t.Parallel()

	t.Run("Should delete only rooms idle past the deadline", func(t provider.T) {
		driver := New()
		ctx := context.Background()

		stale := model.NewRoom("OLD001", "conn-a")
		stale.LastActive = time.Now().Add(-time.Hour)
		assert.NoError(t, driver.Create(ctx, stale))
		assert.NoError(t, driver.Create(ctx, model.NewRoom("NEW001", "conn-b")))

		codes, err := driver.DeleteExpired(ctx, time.Minute)
		assert.NoError(t, err)
		assert.Equal(t, []string{"OLD001"}, codes)

		count, err := driver.Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
