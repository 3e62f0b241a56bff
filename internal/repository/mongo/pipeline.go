package mongo

import (
	"regexp"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// buildFilter translates a ChatLogFilter into a query document. Substring
// filters are quoted so user input is matched literally.
func buildFilter(f domain.ChatLogFilter) bson.M {
	filter := bson.M{}

	if f.Personality != "" {
		filter["personality"] = containsInsensitive(f.Personality)
	}
	if f.UserAgent != "" {
		filter["userAgent"] = containsInsensitive(f.UserAgent)
	}

	if f.Start != nil || f.End != nil {
		rng := bson.M{}
		if f.Start != nil {
			rng["$gte"] = f.Start.UTC()
		}
		if f.End != nil {
			rng["$lte"] = f.End.UTC()
		}
		filter["createdAt"] = rng
	}

	return filter
}

func containsInsensitive(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func countByDesc(field any, limit int) bson.A {
	stages := bson.A{
		bson.M{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
		bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
	}
	if limit > 0 {
		stages = append(stages, bson.M{"$limit": limit})
	}
	return stages
}

// buildAnalyticsPipeline computes every dashboard breakdown in a single
// round trip. Days are grouped in the display timezone.
func buildAnalyticsPipeline(filter bson.M, timezone string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$facet", Value: bson.M{
			"total":       bson.A{bson.M{"$count": "count"}},
			"personality": countByDesc("$personality", 0),
			"browser":     countByDesc("$device.browser.name", domain.TopBucketLimit),
			"os":          countByDesc("$device.os.name", domain.TopBucketLimit),
			"device": countByDesc(
				bson.M{"$ifNull": bson.A{"$device.device.type", domain.DefaultDeviceType}},
				0,
			),
			"daily": bson.A{
				bson.M{"$group": bson.M{
					"_id": bson.M{"$dateToString": bson.M{
						"format":   "%Y-%m-%d",
						"date":     "$createdAt",
						"timezone": timezone,
					}},
					"count": bson.M{"$sum": 1},
				}},
				bson.M{"$sort": bson.M{"_id": -1}},
				bson.M{"$limit": domain.DailyBucketDays},
			},
			"messages": bson.A{
				bson.M{"$unwind": "$messages"},
				bson.M{"$group": bson.M{
					"_id":           nil,
					"avgLength":     bson.M{"$avg": bson.M{"$strLenCP": "$messages.content"}},
					"totalMessages": bson.M{"$sum": 1},
				}},
			},
		}}},
	}
}

type analyticsFacet struct {
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
	Personality []domain.Bucket       `bson:"personality"`
	Browser     []domain.Bucket       `bson:"browser"`
	OS          []domain.Bucket       `bson:"os"`
	Device      []domain.Bucket       `bson:"device"`
	Daily       []domain.Bucket       `bson:"daily"`
	Messages    []domain.MessageStats `bson:"messages"`
}

func (f analyticsFacet) toDomain() *domain.Analytics {
	a := &domain.Analytics{
		PersonalityBreakdown: nonNil(f.Personality),
		BrowserBreakdown:     nonNil(f.Browser),
		OSBreakdown:          nonNil(f.OS),
		DeviceBreakdown:      nonNil(f.Device),
		DailyActivity:        make([]domain.Bucket, 0, len(f.Daily)),
	}
	if len(f.Total) > 0 {
		a.TotalConversations = f.Total[0].Count
	}
	if len(f.Messages) > 0 {
		a.MessageStats = f.Messages[0]
	}

	// newest days were selected, oldest first is displayed
	for i := len(f.Daily) - 1; i >= 0; i-- {
		a.DailyActivity = append(a.DailyActivity, f.Daily[i])
	}
	return a
}

func nonNil(b []domain.Bucket) []domain.Bucket {
	if b == nil {
		return []domain.Bucket{}
	}
	return b
}
