package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chapterhouse/contexts/chapter-operations/outreach-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/outreach-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/outreach-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SaveApproach(ctx context.Context, approach entities.Approach) error {
	row := approachModelFromEntity(approach)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("outreach_repo_save_approach_failed", err,
			"approach_id", strings.TrimSpace(approach.ApproachID),
			"cycle_id", strings.TrimSpace(approach.CycleID),
		)
	}
	return nil
}

func (r *Repository) GetApproach(ctx context.Context, approachID string) (entities.Approach, error) {
	var row approachModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(approachID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Approach{}, domainerrors.ErrApproachNotFound
		}
		return entities.Approach{}, r.logError("outreach_repo_get_approach_failed", err,
			"approach_id", strings.TrimSpace(approachID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListApproaches(ctx context.Context, filter ports.ApproachFilter) ([]entities.Approach, error) {
	tx := r.db.WithContext(ctx).Model(&approachModel{})
	if filter.CycleID != "" {
		tx = tx.Where("cycle_id = ?", filter.CycleID)
	}
	if filter.PositionID != "" {
		tx = tx.Where("position_id = ?", filter.PositionID)
	}
	if filter.Status != "" {
		tx = tx.Where("response_status = ?", string(filter.Status))
	}
	var rows []approachModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("outreach_repo_list_approaches_failed", err,
			"cycle_id", filter.CycleID,
			"position_id", filter.PositionID,
		)
	}
	items := make([]entities.Approach, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// RecordResponse updates only while response_status is still pending, so the
// write-once rule holds under concurrent submissions.
func (r *Repository) RecordResponse(
	ctx context.Context,
	approachID string,
	status entities.ResponseStatus,
	respondedAt time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&approachModel{}).
		Where("id = ?", strings.TrimSpace(approachID)).
		Where("response_status = ?", string(entities.ResponsePending)).
		Updates(map[string]any{
			"response_status": string(status),
			"responded_at":    respondedAt.UTC(),
			"updated_at":      respondedAt.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("outreach_repo_record_response_failed", result.Error,
			"approach_id", strings.TrimSpace(approachID),
			"response_status", string(status),
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) OverrideResponse(
	ctx context.Context,
	approachID string,
	status entities.ResponseStatus,
	respondedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&approachModel{}).
		Where("id = ?", strings.TrimSpace(approachID)).
		Updates(map[string]any{
			"response_status": string(status),
			"responded_at":    respondedAt.UTC(),
			"updated_at":      respondedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("outreach_repo_override_response_failed", result.Error,
			"approach_id", strings.TrimSpace(approachID),
			"response_status", string(status),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrApproachNotFound
	}
	return nil
}

// GetCycle reads the succession-service cycle table as a projection.
func (r *Repository) GetCycle(ctx context.Context, cycleID string) (ports.CycleProjection, error) {
	var row cycleProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(cycleID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CycleProjection{}, domainerrors.ErrCycleNotFound
		}
		return ports.CycleProjection{}, r.logError("outreach_repo_get_cycle_failed", err,
			"cycle_id", strings.TrimSpace(cycleID),
		)
	}
	return ports.CycleProjection{
		CycleID: row.ID,
		Scope:   row.Scope,
		Status:  row.Status,
	}, nil
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (ports.PositionProjection, error) {
	var row positionProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(positionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PositionProjection{}, domainerrors.ErrPositionNotFound
		}
		return ports.PositionProjection{}, r.logError("outreach_repo_get_position_failed", err,
			"position_id", strings.TrimSpace(positionID),
		)
	}
	return ports.PositionProjection{
		PositionID: row.ID,
		CycleID:    row.CycleID,
		Title:      row.Title,
		Active:     row.Active,
	}, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+7)
	fields = append(fields,
		"event", event,
		"module", "chapter-operations/outreach-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("outreach repository operation failed", fields...)
	return err
}

type approachModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	CycleID     string     `gorm:"column:cycle_id"`
	PositionID  string     `gorm:"column:position_id"`
	CandidateID string     `gorm:"column:candidate_id"`
	Status      string     `gorm:"column:response_status"`
	Notes       string     `gorm:"column:notes"`
	RespondedAt *time.Time `gorm:"column:responded_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (approachModel) TableName() string {
	return "approaches"
}

func approachModelFromEntity(approach entities.Approach) approachModel {
	row := approachModel{
		ID:          strings.TrimSpace(approach.ApproachID),
		CycleID:     strings.TrimSpace(approach.CycleID),
		PositionID:  strings.TrimSpace(approach.PositionID),
		CandidateID: strings.TrimSpace(approach.CandidateID),
		Status:      string(approach.Status),
		Notes:       approach.Notes,
		RespondedAt: normalizeOptionalTime(approach.RespondedAt),
		CreatedAt:   approach.CreatedAt.UTC(),
		UpdatedAt:   approach.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m approachModel) toEntity() entities.Approach {
	return entities.Approach{
		ApproachID:  m.ID,
		CycleID:     m.CycleID,
		PositionID:  m.PositionID,
		CandidateID: m.CandidateID,
		Status:      entities.ResponseStatus(m.Status),
		Notes:       m.Notes,
		RespondedAt: normalizeOptionalTime(m.RespondedAt),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type cycleProjectionModel struct {
	ID     string `gorm:"column:id"`
	Scope  string `gorm:"column:scope"`
	Status string `gorm:"column:status"`
}

func (cycleProjectionModel) TableName() string {
	return "succession_cycles"
}

type positionProjectionModel struct {
	ID      string `gorm:"column:id"`
	CycleID string `gorm:"column:cycle_id"`
	Title   string `gorm:"column:title"`
	Active  bool   `gorm:"column:is_active"`
}

func (positionProjectionModel) TableName() string {
	return "positions"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ApproachRepository = (*Repository)(nil)
var _ ports.CycleReader = (*Repository)(nil)
var _ ports.PositionReader = (*Repository)(nil)
