package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listPrealloc caps the slice preallocated for a page of results
const listPrealloc = 100

// ChatLogRepository implements domain.ChatLogRepository
type ChatLogRepository struct {
	db  *DB
	loc *time.Location
}

// NewChatLogRepository creates a new chat log repository. loc is the
// timezone daily activity is grouped in.
func NewChatLogRepository(db *DB, loc *time.Location) *ChatLogRepository {
	return &ChatLogRepository{db: db, loc: loc}
}

func (r *ChatLogRepository) Create(ctx context.Context, l *domain.ConversationLog) error {
	coll, err := r.db.Collection(ctx)
	if err != nil {
		return domain.WrapPersistence("Failed to save chat log", err)
	}

	res, err := coll.InsertOne(ctx, toDocument(l))
	if err != nil {
		return domain.WrapPersistence("Failed to save chat log", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.ID = oid.Hex()
	}
	return nil
}

func (r *ChatLogRepository) Get(ctx context.Context, id string) (*domain.ConversationLog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	coll, err := r.db.Collection(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("Failed to fetch chat log", err)
	}

	var doc chatLogDocument
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("Chat log")
		}
		return nil, domain.WrapPersistence("Failed to fetch chat log", err)
	}

	l := doc.toDomain()
	return &l, nil
}

func (r *ChatLogRepository) Delete(ctx context.Context, id string) (*domain.ConversationLog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	coll, err := r.db.Collection(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("Failed to delete chat log", err)
	}

	var doc chatLogDocument
	if err := coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("Chat log")
		}
		return nil, domain.WrapPersistence("Failed to delete chat log", err)
	}

	l := doc.toDomain()
	return &l, nil
}

func (r *ChatLogRepository) List(ctx context.Context, filter domain.ChatLogFilter, page, limit int) ([]domain.ConversationLog, int64, error) {
	coll, err := r.db.Collection(ctx)
	if err != nil {
		return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
	}

	query := buildFilter(filter)

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
	}
	defer cursor.Close(ctx)

	logs := make([]domain.ConversationLog, 0, min(limit, listPrealloc))
	for cursor.Next(ctx) {
		var doc chatLogDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
		}
		logs = append(logs, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
	}

	return logs, total, nil
}

func (r *ChatLogRepository) Aggregate(ctx context.Context, filter domain.ChatLogFilter) (*domain.Analytics, error) {
	coll, err := r.db.Collection(ctx)
	if err != nil {
		return nil, domain.WrapPersistence("Failed to fetch analytics", err)
	}

	cursor, err := coll.Aggregate(ctx, buildAnalyticsPipeline(buildFilter(filter), r.loc.String()))
	if err != nil {
		return nil, domain.WrapPersistence("Failed to fetch analytics", err)
	}
	defer cursor.Close(ctx)

	var facet analyticsFacet
	if cursor.Next(ctx) {
		if err := cursor.Decode(&facet); err != nil {
			return nil, domain.WrapPersistence("Failed to fetch analytics", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, domain.WrapPersistence("Failed to fetch analytics", err)
	}

	return facet.toDomain(), nil
}

func (r *ChatLogRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError("Invalid chat log ID")
	}
	return oid, nil
}
