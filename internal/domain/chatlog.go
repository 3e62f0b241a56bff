package domain

import (
	"context"
	"time"
)

// ConversationLog is one persisted chat exchange
type ConversationLog struct {
	ID          string    `json:"_id"`
	UserAgent   string    `json:"userAgent"`
	Device      Device    `json:"device"`
	Messages    []Turn    `json:"messages"`
	AIResponse  string    `json:"aiResponse"`
	Personality string    `json:"personality,omitempty"`
	Timestamp   string    `json:"timestamp"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Device is the structured breakdown of a User-Agent string
type Device struct {
	Browser NameVersion `json:"browser"`
	OS      NameVersion `json:"os"`
	Device  DeviceClass `json:"device"`
}

// NameVersion pairs a product name with its version
type NameVersion struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// DeviceClass holds the form factor. An empty type means desktop.
type DeviceClass struct {
	Type string `json:"type,omitempty"`
}

// DefaultDeviceType is the bucket for logs without a device type
const DefaultDeviceType = "Desktop"

// ChatLogFilter narrows list and aggregate queries. Zero values match all.
type ChatLogFilter struct {
	Personality string
	UserAgent   string
	Start       *time.Time
	End         *time.Time
}

// Bucket is one group of an aggregate breakdown
type Bucket struct {
	ID    string `json:"_id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// MessageStats summarizes stored message contents
type MessageStats struct {
	AvgLength     float64 `json:"avgLength" bson:"avgLength"`
	TotalMessages int64   `json:"totalMessages" bson:"totalMessages"`
}

// Analytics is the dashboard summary over a set of logs
type Analytics struct {
	TotalConversations   int64        `json:"totalConversations"`
	PersonalityBreakdown []Bucket     `json:"personalityBreakdown"`
	BrowserBreakdown     []Bucket     `json:"browserBreakdown"`
	OSBreakdown          []Bucket     `json:"osBreakdown"`
	DeviceBreakdown      []Bucket     `json:"deviceBreakdown"`
	DailyActivity        []Bucket     `json:"dailyActivity"`
	MessageStats         MessageStats `json:"messageStats"`
}

// Aggregation limits
const (
	TopBucketLimit  = 10
	DailyBucketDays = 7
)

// ChatLogRepository defines the interface for conversation log storage
type ChatLogRepository interface {
	Create(ctx context.Context, log *ConversationLog) error
	Get(ctx context.Context, id string) (*ConversationLog, error)
	Delete(ctx context.Context, id string) (*ConversationLog, error)
	List(ctx context.Context, filter ChatLogFilter, page, limit int) ([]ConversationLog, int64, error)
	Aggregate(ctx context.Context, filter ChatLogFilter) (*Analytics, error)
	Ping(ctx context.Context) error
}
