package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/security"
	"github.com/rs/zerolog/log"
)

// DefaultExportLimit caps an export when none is configured
const DefaultExportLimit = 5000

// Export is a full dump of matching logs
type Export struct {
	Filename string
	Logs     []domain.ConversationLog
}

// AdminService handles dashboard mutations and login
type AdminService struct {
	repo         domain.ChatLogRepository
	jwtManager   *security.JWTManager
	username     string
	passwordHash string
	exportLimit  int
	loc          *time.Location
	now          func() time.Time
}

// AdminConfig holds the dashboard credentials and export cap
type AdminConfig struct {
	Username     string
	PasswordHash string
	ExportLimit  int
	Location     *time.Location
}

// NewAdminService creates a new admin service. jwtManager may be nil when
// dashboard auth is disabled.
func NewAdminService(repo domain.ChatLogRepository, jwtManager *security.JWTManager, cfg AdminConfig) *AdminService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	if cfg.ExportLimit <= 0 {
		cfg.ExportLimit = DefaultExportLimit
	}
	return &AdminService{
		repo:         repo,
		jwtManager:   jwtManager,
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		exportLimit:  cfg.ExportLimit,
		loc:          loc,
		now:          time.Now,
	}
}

// Delete removes a log and returns it
func (s *AdminService) Delete(ctx context.Context, id string) (*domain.ConversationLog, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().Str("log_id", id).Msg("Chat log deleted")
	return deleted, nil
}

// Export returns every log matching filter, newest first, up to the export limit
func (s *AdminService) Export(ctx context.Context, filter domain.ChatLogFilter) (*Export, error) {
	logs, total, err := s.repo.List(ctx, filter, 1, s.exportLimit)
	if err != nil {
		return nil, err
	}

	if total > int64(len(logs)) {
		log.Warn().
			Int64("total", total).
			Int("exported", len(logs)).
			Msg("Chat log export truncated")
	}

	return &Export{
		Filename: "chat-logs-" + s.now().In(s.loc).Format(domain.DayLayout) + ".json",
		Logs:     logs,
	}, nil
}

// Login exchanges admin credentials for a bearer token
func (s *AdminService) Login(ctx context.Context, input domain.AdminLogin) (*domain.AdminToken, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.NewValidationError("username and password are required")
	}

	if s.jwtManager == nil || s.passwordHash == "" {
		return nil, domain.NewUnauthorizedError("Admin login is not enabled")
	}

	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(s.username)) == 1
	err := security.CheckPassword(s.passwordHash, input.Password)
	if err != nil && !errors.Is(err, security.ErrPasswordMismatch) {
		return nil, err
	}
	if !userOK || err != nil {
		log.Warn().Str("username", input.Username).Msg("Failed admin login")
		return nil, domain.NewUnauthorizedError("Invalid username or password")
	}

	token, err := s.jwtManager.GenerateAdminToken(s.username)
	if err != nil {
		return nil, err
	}

	return &domain.AdminToken{
		Token:     token,
		ExpiresIn: int64(s.jwtManager.TokenTTL().Seconds()),
	}, nil
}
