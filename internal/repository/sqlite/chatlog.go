package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
)

// listPrealloc caps the slice preallocated for a page of results
const listPrealloc = 100

const chatLogColumns = `l.id, l.user_agent, l.device, l.messages, l.ai_response, l.personality, l.timestamp, l.created_at`

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
	device, err := json.Marshal(l.Device)
	if err != nil {
		return domain.WrapPersistence("Failed to save chat log", err)
	}
	messages, err := json.Marshal(domain.NormalizeTurns(l.Messages))
	if err != nil {
		return domain.WrapPersistence("Failed to save chat log", err)
	}

	id := uuid.NewString()

	query := `
		INSERT INTO chat_logs (id, user_agent, device, browser_name, os_name, device_type,
			messages, ai_response, personality, timestamp, created_at, created_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		id,
		l.UserAgent,
		string(device),
		l.Device.Browser.Name,
		l.Device.OS.Name,
		l.Device.Device.Type,
		string(messages),
		l.AIResponse,
		nullString(l.Personality),
		l.Timestamp,
		l.CreatedAt.UnixNano(),
		l.CreatedAt.In(r.loc).Format(domain.DayLayout),
	)
	if err != nil {
		return domain.WrapPersistence("Failed to save chat log", err)
	}

	l.ID = id
	return nil
}

func (r *ChatLogRepository) Get(ctx context.Context, id string) (*domain.ConversationLog, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + chatLogColumns + ` FROM chat_logs l WHERE l.id = ?`
	l, err := scanChatLog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("Chat log")
		}
		return nil, domain.WrapPersistence("Failed to fetch chat log", err)
	}
	return l, nil
}

func (r *ChatLogRepository) Delete(ctx context.Context, id string) (*domain.ConversationLog, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	query := `DELETE FROM chat_logs WHERE id = ?
		RETURNING id, user_agent, device, messages, ai_response, personality, timestamp, created_at`
	l, err := scanChatLog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("Chat log")
		}
		return nil, domain.WrapPersistence("Failed to delete chat log", err)
	}
	return l, nil
}

func (r *ChatLogRepository) List(ctx context.Context, filter domain.ChatLogFilter, page, limit int) ([]domain.ConversationLog, int64, error) {
	where, args := buildWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_logs l`+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
	}

	query := `SELECT ` + chatLogColumns + ` FROM chat_logs l` + where + `
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
	}
	defer rows.Close()

	logs := make([]domain.ConversationLog, 0, min(limit, listPrealloc))
	for rows.Next() {
		l, err := scanChatLog(rows)
		if err != nil {
			return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.WrapPersistence("Failed to fetch chat logs", err)
	}

	return logs, total, nil
}

func (r *ChatLogRepository) Aggregate(ctx context.Context, filter domain.ChatLogFilter) (*domain.Analytics, error) {
	where, args := buildWhere(filter)
	a := &domain.Analytics{}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_logs l`+where, args...).Scan(&a.TotalConversations); err != nil {
		return nil, domain.WrapPersistence("Failed to fetch analytics", err)
	}

	breakdowns := []struct {
		expr  string
		limit int
		dst   *[]domain.Bucket
	}{
		{"COALESCE(l.personality, '')", 0, &a.PersonalityBreakdown},
		{"l.browser_name", domain.TopBucketLimit, &a.BrowserBreakdown},
		{"l.os_name", domain.TopBucketLimit, &a.OSBreakdown},
		{"COALESCE(NULLIF(l.device_type, ''), '" + domain.DefaultDeviceType + "')", 0, &a.DeviceBreakdown},
	}
	for _, b := range breakdowns {
		buckets, err := r.countBy(ctx, b.expr, where, args, b.limit)
		if err != nil {
			return nil, domain.WrapPersistence("Failed to fetch analytics", err)
		}
		*b.dst = buckets
	}

	daily, err := r.dailyActivity(ctx, where, args)
	if err != nil {
		return nil, domain.WrapPersistence("Failed to fetch analytics", err)
	}
	a.DailyActivity = daily

	statsQuery := `
		SELECT COALESCE(AVG(LENGTH(json_extract(m.value, '$.content'))), 0), COUNT(m.value)
		FROM chat_logs l, json_each(l.messages) m` + where
	if err := r.db.QueryRowContext(ctx, statsQuery, args...).Scan(&a.MessageStats.AvgLength, &a.MessageStats.TotalMessages); err != nil {
		return nil, domain.WrapPersistence("Failed to fetch analytics", err)
	}

	return a, nil
}

func (r *ChatLogRepository) countBy(ctx context.Context, expr, where string, args []any, limit int) ([]domain.Bucket, error) {
	query := `SELECT ` + expr + ` AS bucket, COUNT(*) AS n FROM chat_logs l` + where + `
		GROUP BY bucket
		ORDER BY n DESC, bucket ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return r.queryBuckets(ctx, query, args)
}

// dailyActivity returns the most recent active days, oldest first
func (r *ChatLogRepository) dailyActivity(ctx context.Context, where string, args []any) ([]domain.Bucket, error) {
	query := fmt.Sprintf(`SELECT l.created_day, COUNT(*) FROM chat_logs l%s
		GROUP BY l.created_day
		ORDER BY l.created_day DESC
		LIMIT %d`, where, domain.DailyBucketDays)

	buckets, err := r.queryBuckets(ctx, query, args)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets, nil
}

func (r *ChatLogRepository) queryBuckets(ctx context.Context, query string, args []any) ([]domain.Bucket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := []domain.Bucket{}
	for rows.Next() {
		var b domain.Bucket
		if err := rows.Scan(&b.ID, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *ChatLogRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// buildWhere returns the WHERE clause for filter against alias l
func buildWhere(f domain.ChatLogFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Personality != "" {
		conds = append(conds, `l.personality LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.Personality))
	}
	if f.UserAgent != "" {
		conds = append(conds, `l.user_agent LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.UserAgent))
	}
	if f.Start != nil {
		conds = append(conds, `l.created_at >= ?`)
		args = append(args, f.Start.UnixNano())
	}
	if f.End != nil {
		conds = append(conds, `l.created_at <= ?`)
		args = append(args, f.End.UnixNano())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChatLog(row rowScanner) (*domain.ConversationLog, error) {
	var (
		l           domain.ConversationLog
		device      string
		messages    string
		personality sql.NullString
		createdAt   int64
	)

	if err := row.Scan(
		&l.ID,
		&l.UserAgent,
		&device,
		&messages,
		&l.AIResponse,
		&personality,
		&l.Timestamp,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(device), &l.Device); err != nil {
		return nil, fmt.Errorf("failed to decode device: %w", err)
	}
	if err := json.Unmarshal([]byte(messages), &l.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	l.Personality = personality.String
	l.CreatedAt = time.Unix(0, createdAt).UTC()

	return &l, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewValidationError("Invalid chat log ID")
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
