package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/service/database"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
	"go.uber.org/zap"
)

// InfluencerRepository persists saved influencer profiles. Structured
// sub-objects (metrics, categories, audience) are stored as JSONB.
type InfluencerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewInfluencerRepository(postgres *database.PostgresService, logger *zap.Logger) *InfluencerRepository {
	return &InfluencerRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

const influencerColumns = `
	id, username, display_name, thumbnail_url, followers, platform,
	metrics, categories, trust_score, audience, analysis_date
`

// GetAll returns one page of saved influencers plus the total count.
func (r *InfluencerRepository) GetAll(ctx context.Context, page, limit int) ([]*domain.InfluencerProfile, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM influencers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count influencers: %w", err)
	}

	query := `
		SELECT ` + influencerColumns + `
		FROM influencers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query influencers: %w", err)
	}
	defer rows.Close()

	profiles := make([]*domain.InfluencerProfile, 0)
	for rows.Next() {
		profile, err := r.scanInfluencer(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, total, rows.Err()
}

// GetByID returns nil, nil when no influencer matches.
func (r *InfluencerRepository) GetByID(ctx context.Context, id string) (*domain.InfluencerProfile, error) {
	query := `
		SELECT ` + influencerColumns + `
		FROM influencers
		WHERE id = $1
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	profile, err := r.scanInfluencer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query influencer by id: %w", err)
	}
	return profile, nil
}

// FindByUsername matches case-insensitively, optionally narrowed to one
// platform. Returns nil, nil when nothing matches.
func (r *InfluencerRepository) FindByUsername(ctx context.Context, username string, platform domain.Platform) (*domain.InfluencerProfile, error) {
	query := `
		SELECT ` + influencerColumns + `
		FROM influencers
		WHERE LOWER(username) = LOWER($1)
		  AND ($2 = '' OR platform = $2)
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, username, string(platform))
	profile, err := r.scanInfluencer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query influencer by username: %w", err)
	}
	return profile, nil
}

// Create stores a profile, assigning a UUID when the profile only carries an
// ephemeral adapter-generated ID or none at all.
func (r *InfluencerRepository) Create(ctx context.Context, profile *domain.InfluencerProfile) (*domain.InfluencerProfile, error) {
	stored := *profile
	if stored.ID == "" || !isStableID(stored.ID) {
		stored.ID = uuid.NewString()
	}
	if stored.AnalysisDate.IsZero() {
		stored.AnalysisDate = time.Now().UTC()
	}
	stored.FollowersFormatted = util.FormatCount(stored.Followers, true)

	metrics, categories, audience, err := marshalProfileJSON(&stored)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO influencers (
			id, username, display_name, thumbnail_url, followers, platform,
			metrics, categories, trust_score, audience, analysis_date,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`

	_, err = r.db.ExecContext(ctx, query,
		stored.ID, stored.Username, stored.DisplayName, stored.ThumbnailURL,
		stored.Followers, string(stored.Platform),
		metrics, categories, nullableScore(stored.TrustScore), audience,
		stored.AnalysisDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert influencer: %w", err)
	}

	r.logger.Info("Influencer saved",
		zap.String("id", stored.ID),
		zap.String("username", stored.Username),
		zap.String("platform", string(stored.Platform)),
	)
	return &stored, nil
}

// Update rewrites every stored field. Returns nil, nil when the ID is gone.
func (r *InfluencerRepository) Update(ctx context.Context, profile *domain.InfluencerProfile) (*domain.InfluencerProfile, error) {
	stored := *profile
	stored.FollowersFormatted = util.FormatCount(stored.Followers, true)

	metrics, categories, audience, err := marshalProfileJSON(&stored)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE influencers
		SET username = $2, display_name = $3, thumbnail_url = $4,
		    followers = $5, platform = $6, metrics = $7, categories = $8,
		    trust_score = $9, audience = $10, analysis_date = $11,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		stored.ID, stored.Username, stored.DisplayName, stored.ThumbnailURL,
		stored.Followers, string(stored.Platform),
		metrics, categories, nullableScore(stored.TrustScore), audience,
		stored.AnalysisDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update influencer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return &stored, nil
}

// Delete reports whether a row was removed.
func (r *InfluencerRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM influencers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete influencer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *InfluencerRepository) scanInfluencer(row rowScanner) (*domain.InfluencerProfile, error) {
	var (
		profile        domain.InfluencerProfile
		platform       string
		metricsJSON    []byte
		categoriesJSON []byte
		trustScore     sql.NullInt64
		audienceJSON   []byte
	)

	err := row.Scan(
		&profile.ID, &profile.Username, &profile.DisplayName,
		&profile.ThumbnailURL, &profile.Followers, &platform,
		&metricsJSON, &categoriesJSON, &trustScore, &audienceJSON,
		&profile.AnalysisDate,
	)
	if err != nil {
		return nil, err
	}

	profile.Platform = domain.Platform(platform)
	profile.FollowersFormatted = util.FormatCount(profile.Followers, true)
	profile.Categories = []string{}

	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &profile.Metrics); err != nil {
			r.logger.Warn("Failed to decode stored metrics",
				zap.String("id", profile.ID), zap.Error(err))
		}
	}
	if len(categoriesJSON) > 0 {
		if err := json.Unmarshal(categoriesJSON, &profile.Categories); err != nil {
			r.logger.Warn("Failed to decode stored categories",
				zap.String("id", profile.ID), zap.Error(err))
		}
	}
	if len(audienceJSON) > 0 {
		_ = json.Unmarshal(audienceJSON, &profile.Audience)
	}
	if trustScore.Valid {
		profile.SetTrustScore(int(trustScore.Int64))
	}

	return &profile, nil
}

func marshalProfileJSON(profile *domain.InfluencerProfile) (metrics, categories, audience []byte, err error) {
	if metrics, err = json.Marshal(profile.Metrics); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode metrics: %w", err)
	}
	if profile.Categories == nil {
		profile.Categories = []string{}
	}
	if categories, err = json.Marshal(profile.Categories); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode categories: %w", err)
	}
	if profile.Audience != nil {
		if audience, err = json.Marshal(profile.Audience); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode audience: %w", err)
		}
	}
	return metrics, categories, audience, nil
}

func nullableScore(score *int) any {
	if score == nil {
		return nil
	}
	return *score
}

// isStableID rejects the adapter's ephemeral "{platform}_{millis}_{n}" IDs so
// persisted rows always get a real UUID.
func isStableID(id string) bool {
	if _, err := uuid.Parse(id); err == nil {
		return true
	}
	for _, platform := range domain.AllPlatforms {
		prefix := platform.Key() + "_"
		if len(id) > len(prefix) && id[:len(prefix)] == prefix {
			return false
		}
	}
	return true
}
