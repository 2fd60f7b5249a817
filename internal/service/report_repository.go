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
	"go.uber.org/zap"
)

// ReportRepository persists generated analysis reports.
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewReportRepository(postgres *database.PostgresService, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *ReportRepository) GetAll(ctx context.Context, page, limit int) ([]*domain.Report, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	query := `
		SELECT id, influencer_id, title, platform, status, summary, payload, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*domain.Report, 0)
	for rows.Next() {
		report, err := r.scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, report)
	}

	return reports, total, rows.Err()
}

// GetByID returns nil, nil when no report matches.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `
		SELECT id, influencer_id, title, platform, status, summary, payload, created_at
		FROM reports
		WHERE id = $1
		LIMIT 1
	`

	report, err := r.scanReport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report by id: %w", err)
	}
	return report, nil
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	stored := *report
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Status == "" {
		stored.Status = domain.ReportStatusCompleted
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	var payloadJSON []byte
	if stored.Payload != nil {
		var err error
		if payloadJSON, err = json.Marshal(stored.Payload); err != nil {
			return nil, fmt.Errorf("failed to encode report payload: %w", err)
		}
	}

	query := `
		INSERT INTO reports (id, influencer_id, title, platform, status, summary, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		stored.ID, stored.InfluencerID, stored.Title, string(stored.Platform),
		string(stored.Status), stored.Summary, payloadJSON, stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	r.logger.Info("Report saved",
		zap.String("id", stored.ID),
		zap.String("influencer_id", stored.InfluencerID),
	)
	return &stored, nil
}

func (r *ReportRepository) scanReport(row rowScanner) (*domain.Report, error) {
	var (
		report      domain.Report
		platform    string
		status      string
		summary     sql.NullString
		payloadJSON []byte
	)

	err := row.Scan(
		&report.ID, &report.InfluencerID, &report.Title, &platform,
		&status, &summary, &payloadJSON, &report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	report.Platform = domain.Platform(platform)
	report.Status = domain.ReportStatus(status)
	report.Summary = summary.String

	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &report.Payload); err != nil {
			r.logger.Warn("Failed to decode stored report payload",
				zap.String("id", report.ID), zap.Error(err))
		}
	}

	return &report, nil
}
