package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chapterhouse/contexts/chapter-operations/nomination-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/nomination-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/nomination-service/ports"

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

func (r *Repository) SaveNomination(ctx context.Context, nomination entities.Nomination) error {
	row := nominationModelFromEntity(nomination)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("nomination_repo_save_failed", err,
			"nomination_id", strings.TrimSpace(nomination.NominationID),
			"cycle_id", strings.TrimSpace(nomination.CycleID),
		)
	}
	return nil
}

func (r *Repository) GetNomination(ctx context.Context, nominationID string) (entities.Nomination, error) {
	var row nominationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(nominationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Nomination{}, domainerrors.ErrNominationNotFound
		}
		return entities.Nomination{}, r.logError("nomination_repo_get_failed", err,
			"nomination_id", strings.TrimSpace(nominationID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListNominations(ctx context.Context, filter ports.NominationFilter) ([]entities.Nomination, error) {
	tx := r.db.WithContext(ctx).Model(&nominationModel{})
	if filter.CycleID != "" {
		tx = tx.Where("cycle_id = ?", filter.CycleID)
	}
	if filter.PositionID != "" {
		tx = tx.Where("position_id = ?", filter.PositionID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	var rows []nominationModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("nomination_repo_list_failed", err,
			"cycle_id", filter.CycleID,
			"position_id", filter.PositionID,
		)
	}
	items := make([]entities.Nomination, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// Review updates only while status is still submitted, keeping the review
// gate single-shot under concurrent decisions.
func (r *Repository) Review(
	ctx context.Context,
	nominationID string,
	status entities.NominationStatus,
	reviewedBy string,
	reviewedAt time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&nominationModel{}).
		Where("id = ?", strings.TrimSpace(nominationID)).
		Where("status = ?", string(entities.NominationSubmitted)).
		Updates(map[string]any{
			"status":      string(status),
			"reviewed_by": strings.TrimSpace(reviewedBy),
			"reviewed_at": reviewedAt.UTC(),
			"updated_at":  reviewedAt.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("nomination_repo_review_failed", result.Error,
			"nomination_id", strings.TrimSpace(nominationID),
			"status", string(status),
		)
	}
	return result.RowsAffected > 0, nil
}

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
		return ports.CycleProjection{}, r.logError("nomination_repo_get_cycle_failed", err,
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
		return ports.PositionProjection{}, r.logError("nomination_repo_get_position_failed", err,
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

func (r *Repository) GetApproach(ctx context.Context, approachID string) (ports.ApproachProjection, error) {
	var row approachProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(approachID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ApproachProjection{}, domainerrors.ErrApproachMismatch
		}
		return ports.ApproachProjection{}, r.logError("nomination_repo_get_approach_failed", err,
			"approach_id", strings.TrimSpace(approachID),
		)
	}
	return ports.ApproachProjection{
		ApproachID:  row.ID,
		CycleID:     row.CycleID,
		PositionID:  row.PositionID,
		CandidateID: row.CandidateID,
		Status:      row.Status,
	}, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+7)
	fields = append(fields,
		"event", event,
		"module", "chapter-operations/nomination-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("nomination repository operation failed", fields...)
	return err
}

type nominationModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	CycleID     string     `gorm:"column:cycle_id"`
	PositionID  string     `gorm:"column:position_id"`
	CandidateID string     `gorm:"column:candidate_id"`
	ApproachID  *string    `gorm:"column:approach_id"`
	Reason      string     `gorm:"column:reason"`
	Score       *float64   `gorm:"column:weighted_score"`
	Status      string     `gorm:"column:status"`
	ReviewedBy  string     `gorm:"column:reviewed_by"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (nominationModel) TableName() string {
	return "nominations"
}

func nominationModelFromEntity(nomination entities.Nomination) nominationModel {
	row := nominationModel{
		ID:          strings.TrimSpace(nomination.NominationID),
		CycleID:     strings.TrimSpace(nomination.CycleID),
		PositionID:  strings.TrimSpace(nomination.PositionID),
		CandidateID: strings.TrimSpace(nomination.CandidateID),
		Reason:      nomination.Reason,
		Score:       nomination.Score,
		Status:      string(nomination.Status),
		ReviewedBy:  strings.TrimSpace(nomination.ReviewedBy),
		ReviewedAt:  normalizeOptionalTime(nomination.ReviewedAt),
		CreatedAt:   nomination.CreatedAt.UTC(),
		UpdatedAt:   nomination.UpdatedAt.UTC(),
	}
	if strings.TrimSpace(nomination.ApproachID) != "" {
		approachID := strings.TrimSpace(nomination.ApproachID)
		row.ApproachID = &approachID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m nominationModel) toEntity() entities.Nomination {
	approachID := ""
	if m.ApproachID != nil {
		approachID = strings.TrimSpace(*m.ApproachID)
	}
	return entities.Nomination{
		NominationID: m.ID,
		CycleID:      m.CycleID,
		PositionID:   m.PositionID,
		CandidateID:  m.CandidateID,
		ApproachID:   approachID,
		Reason:       m.Reason,
		Score:        m.Score,
		Status:       entities.NominationStatus(m.Status),
		ReviewedBy:   m.ReviewedBy,
		ReviewedAt:   normalizeOptionalTime(m.ReviewedAt),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
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

type approachProjectionModel struct {
	ID          string `gorm:"column:id"`
	CycleID     string `gorm:"column:cycle_id"`
	PositionID  string `gorm:"column:position_id"`
	CandidateID string `gorm:"column:candidate_id"`
	Status      string `gorm:"column:response_status"`
}

func (approachProjectionModel) TableName() string {
	return "approaches"
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

var _ ports.NominationRepository = (*Repository)(nil)
var _ ports.CycleReader = (*Repository)(nil)
var _ ports.PositionReader = (*Repository)(nil)
var _ ports.ApproachReader = (*Repository)(nil)
