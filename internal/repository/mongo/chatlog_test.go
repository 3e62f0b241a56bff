package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/config"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNamespace = "portfolio.chatlogs"

func newMockRepo(mt *mtest.T) *ChatLogRepository {
	db := NewDBFromClient(mt.Client, config.DatabaseConfig{Name: "portfolio", Collection: "chatlogs"})
	return NewChatLogRepository(db, time.UTC)
}

func toBSON(t *testing.T, doc chatLogDocument) bson.D {
	t.Helper()

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func sampleDocument() chatLogDocument {
	doc := chatLogDocument{
		ID:          primitive.NewObjectID(),
		UserAgent:   "Mozilla/5.0",
		Messages:    []turnDocument{{Role: "user", Content: "Hi"}},
		AIResponse:  "Hello!",
		Personality: "Funny",
		Timestamp:   "03/01/2025, 04:00:00 PM",
		CreatedAt:   time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	doc.Device.Browser = nameVersion{Name: "Chrome", Version: "120.0"}
	doc.Device.Device.Type = "desktop"
	return doc
}

func TestChatLogRepository_Mongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := newMockRepo(mt)

		_, err := repo.Get(context.Background(), "not-an-id")
		assert.True(mt, errors.Is(err, domain.ErrValidation))

		_, err = repo.Delete(context.Background(), "123")
		assert.True(mt, errors.Is(err, domain.ErrValidation))
	})

	mt.Run("get not found", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		_, err := repo.Get(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, domain.ErrNotFound))
	})

	mt.Run("get round trip", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		doc := sampleDocument()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, toBSON(mt.T, doc)))

		got, err := repo.Get(context.Background(), doc.ID.Hex())
		require.NoError(mt, err)

		assert.Equal(mt, doc.ID.Hex(), got.ID)
		assert.Equal(mt, "Hello!", got.AIResponse)
		assert.Equal(mt, "Funny", got.Personality)
		assert.Equal(mt, "Chrome", got.Device.Browser.Name)
		assert.Equal(mt, "desktop", got.Device.Device.Type)
		require.Len(mt, got.Messages, 1)
		assert.Equal(mt, domain.RoleUser, got.Messages[0].Role)
		assert.Equal(mt, "Hi", got.Messages[0].Content.String())
		assert.True(mt, doc.CreatedAt.Equal(got.CreatedAt))
	})

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		l := &domain.ConversationLog{
			UserAgent:  "Mozilla/5.0",
			Messages:   []domain.Turn{{Role: domain.RoleUser, Content: domain.TextContent("Hi")}},
			AIResponse: "Hello!",
			CreatedAt:  time.Now(),
		}
		require.NoError(mt, repo.Create(context.Background(), l))

		_, err := primitive.ObjectIDFromHex(l.ID)
		assert.NoError(mt, err)
	})

	mt.Run("create failure", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    8000,
			Name:    "AtlasError",
			Message: "space quota exceeded",
		}))

		err := repo.Create(context.Background(), &domain.ConversationLog{CreatedAt: time.Now()})
		assert.True(mt, errors.Is(err, domain.ErrPersistence))
	})

	mt.Run("delete not found", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, domain.ErrNotFound))
	})

	mt.Run("delete returns removed log", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		doc := sampleDocument()
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: toBSON(mt.T, doc)}})

		got, err := repo.Delete(context.Background(), doc.ID.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, doc.ID.Hex(), got.ID)
		assert.Equal(mt, "Funny", got.Personality)
	})

	mt.Run("list with huge limit", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		first, second := sampleDocument(), sampleDocument()
		second.Personality = "Casual"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, toBSON(mt.T, first), toBSON(mt.T, second)),
		)

		logs, total, err := repo.List(context.Background(), domain.ChatLogFilter{}, 1, 1<<62)
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), total)
		require.Len(mt, logs, 2)
		assert.Equal(mt, "Casual", logs[1].Personality)
	})
}

func TestPlaintext(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want bool
	}{
		{"plain uri", config.DatabaseConfig{URI: "mongodb://localhost:27017"}, true},
		{"tls flag", config.DatabaseConfig{URI: "mongodb://localhost:27017", TLS: true}, false},
		{"srv uri", config.DatabaseConfig{URI: "mongodb+srv://cluster0.example.net/portfolio"}, false},
		{"tls option", config.DatabaseConfig{URI: "mongodb://db:27017/?tls=true"}, false},
		{"ssl option", config.DatabaseConfig{URI: "mongodb://db:27017/?SSL=true"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plaintext(tt.cfg))
		})
	}
}
