package mongo

import (
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type chatLogDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserAgent   string             `bson:"userAgent"`
	Device      deviceDocument     `bson:"device"`
	Messages    []turnDocument     `bson:"messages"`
	AIResponse  string             `bson:"aiResponse"`
	Personality string             `bson:"personality,omitempty"`
	Timestamp   string             `bson:"timestamp"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type deviceDocument struct {
	Browser nameVersion `bson:"browser"`
	OS      nameVersion `bson:"os"`
	Device  struct {
		Type string `bson:"type,omitempty"`
	} `bson:"device"`
}

type nameVersion struct {
	Name    string `bson:"name,omitempty"`
	Version string `bson:"version,omitempty"`
}

type turnDocument struct {
	Role    string `bson:"role"`
	Content string `bson:"content"`
}

func toDocument(l *domain.ConversationLog) chatLogDocument {
	doc := chatLogDocument{
		UserAgent:   l.UserAgent,
		Messages:    make([]turnDocument, 0, len(l.Messages)),
		AIResponse:  l.AIResponse,
		Personality: l.Personality,
		Timestamp:   l.Timestamp,
		CreatedAt:   l.CreatedAt.UTC(),
	}
	doc.Device.Browser = nameVersion(l.Device.Browser)
	doc.Device.OS = nameVersion(l.Device.OS)
	doc.Device.Device.Type = l.Device.Device.Type

	for _, t := range l.Messages {
		doc.Messages = append(doc.Messages, turnDocument{Role: string(t.Role), Content: t.Content.String()})
	}
	return doc
}

func (d chatLogDocument) toDomain() domain.ConversationLog {
	l := domain.ConversationLog{
		ID:          d.ID.Hex(),
		UserAgent:   d.UserAgent,
		Messages:    make([]domain.Turn, 0, len(d.Messages)),
		AIResponse:  d.AIResponse,
		Personality: d.Personality,
		Timestamp:   d.Timestamp,
		CreatedAt:   d.CreatedAt,
	}
	l.Device.Browser = domain.NameVersion(d.Device.Browser)
	l.Device.OS = domain.NameVersion(d.Device.OS)
	l.Device.Device.Type = d.Device.Device.Type

	for _, t := range d.Messages {
		l.Messages = append(l.Messages, domain.Turn{Role: domain.MessageRole(t.Role), Content: domain.TextContent(t.Content)})
	}
	return l
}
