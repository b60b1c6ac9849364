package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/bahath/jobz-web/internal/core/ports"
)

func storageFor(mt *mtest.T) (*SessionStorage, string) {
	ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
	return &SessionStorage{coll: mt.Coll, id: "browser-1"}, ns
}

func TestSessionStorage(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get returns the projected item", func(mt *mtest.T) {
		storage, ns := storageFor(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "browser-1"},
			{Key: "items", Value: bson.D{{Key: "token", Value: "tok-123"}}},
		}))

		got, err := storage.GetItem(ctx, ports.StorageKeyToken)
		require.NoError(mt, err)
		assert.Equal(mt, "tok-123", got)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Contains(mt, evt.Command.String(), "items.token")
	})

	mt.Run("get on a document without the key", func(mt *mtest.T) {
		storage, ns := storageFor(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "browser-1"},
			{Key: "items", Value: bson.D{}},
		}))

		_, err := storage.GetItem(ctx, ports.StorageKeyUser)
		assert.True(mt, errors.Is(err, ports.ErrStorageKeyNotFound))
	})

	mt.Run("get on a missing document", func(mt *mtest.T) {
		storage, ns := storageFor(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := storage.GetItem(ctx, ports.StorageKeyToken)
		assert.True(mt, errors.Is(err, ports.ErrStorageKeyNotFound))
	})

	mt.Run("get wraps server errors", func(mt *mtest.T) {
		storage, _ := storageFor(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "bad projection",
		}))

		_, err := storage.GetItem(ctx, ports.StorageKeyToken)
		require.Error(mt, err)
		assert.False(mt, errors.Is(err, ports.ErrStorageKeyNotFound))
	})

	mt.Run("set upserts the item", func(mt *mtest.T) {
		storage, _ := storageFor(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, storage.SetItem(ctx, ports.StorageKeyToken, "tok-123"))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		cmd := evt.Command.String()
		assert.Contains(mt, cmd, "$set")
		assert.Contains(mt, cmd, "items.token")
		assert.Contains(mt, cmd, "upsert")
	})

	mt.Run("set surfaces write errors", func(mt *mtest.T) {
		storage, _ := storageFor(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		assert.Error(mt, storage.SetItem(ctx, ports.StorageKeyToken, "tok-123"))
	})

	mt.Run("remove unsets the item", func(mt *mtest.T) {
		storage, _ := storageFor(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		require.NoError(mt, storage.RemoveItem(ctx, ports.StorageKeyUser))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		cmd := evt.Command.String()
		assert.Contains(mt, cmd, "$unset")
		assert.Contains(mt, cmd, "items.user")
		assert.NotContains(mt, cmd, "upsert")
	})
}

func TestStorageRepository_Factory(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("scopes storage to the browser id", func(mt *mtest.T) {
		repo := NewStorageRepository(mt.DB)
		s, ok := repo.Factory()("browser-9").(*SessionStorage)
		require.True(mt, ok)
		assert.Equal(mt, "browser-9", s.id)
		assert.Equal(mt, storageCollection, s.coll.Name())
	})

	mt.Run("skips the ttl index when disabled", func(mt *mtest.T) {
		repo := NewStorageRepository(mt.DB)
		assert.NoError(mt, repo.EnsureIndexes(context.Background(), 0))
		assert.Nil(mt, mt.GetStartedEvent())
	})
}
