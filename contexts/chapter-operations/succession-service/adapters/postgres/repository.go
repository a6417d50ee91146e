package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chapterhouse/contexts/chapter-operations/succession-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/succession-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/succession-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

// CreateCycle inserts the cycle and its committee roster in one transaction.
// The partial unique index on (scope) WHERE status = 'active' turns a lost
// race into a unique violation rather than a second active cycle.
func (r *Repository) CreateCycle(ctx context.Context, cycle entities.Cycle) error {
	row := cycleModelFromEntity(cycle)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return replaceCommitteeRows(tx, cycle.CycleID, cycle.VoterIDs)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrActiveCycleExists
		}
		return r.logError("succession_repo_create_cycle_failed", err,
			"cycle_id", strings.TrimSpace(cycle.CycleID),
			"scope", strings.TrimSpace(cycle.Scope),
		)
	}
	return nil
}

func (r *Repository) GetCycle(ctx context.Context, cycleID string) (entities.Cycle, error) {
	var row cycleModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(cycleID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Cycle{}, domainerrors.ErrCycleNotFound
		}
		return entities.Cycle{}, r.logError("succession_repo_get_cycle_failed", err,
			"cycle_id", strings.TrimSpace(cycleID),
		)
	}
	voterIDs, err := r.listCommittee(ctx, row.ID)
	if err != nil {
		return entities.Cycle{}, err
	}
	return row.toEntity(voterIDs), nil
}

func (r *Repository) GetActiveCycle(ctx context.Context, scope string) (entities.Cycle, bool, error) {
	var row cycleModel
	err := r.db.WithContext(ctx).
		Where("scope = ?", strings.TrimSpace(scope)).
		Where("status = ?", string(entities.CycleStatusActive)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Cycle{}, false, nil
		}
		return entities.Cycle{}, false, r.logError("succession_repo_get_active_cycle_failed", err,
			"scope", strings.TrimSpace(scope),
		)
	}
	voterIDs, err := r.listCommittee(ctx, row.ID)
	if err != nil {
		return entities.Cycle{}, false, err
	}
	return row.toEntity(voterIDs), true, nil
}

func (r *Repository) ListCycles(ctx context.Context, scope string) ([]entities.Cycle, error) {
	tx := r.db.WithContext(ctx).Model(&cycleModel{})
	if strings.TrimSpace(scope) != "" {
		tx = tx.Where("scope = ?", strings.TrimSpace(scope))
	}
	var rows []cycleModel
	if err := tx.Order("year DESC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("succession_repo_list_cycles_failed", err,
			"scope", strings.TrimSpace(scope),
		)
	}
	items := make([]entities.Cycle, 0, len(rows))
	for _, row := range rows {
		voterIDs, err := r.listCommittee(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, row.toEntity(voterIDs))
	}
	return items, nil
}

// TransitionCycleStatus is a compare-and-set write; zero rows affected means
// the precondition status no longer holds.
func (r *Repository) TransitionCycleStatus(
	ctx context.Context,
	cycleID string,
	from, to entities.CycleStatus,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&cycleModel{}).
		Where("id = ?", strings.TrimSpace(cycleID)).
		Where("status = ?", string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, domainerrors.ErrActiveCycleExists
		}
		return false, r.logError("succession_repo_transition_cycle_failed", result.Error,
			"cycle_id", strings.TrimSpace(cycleID),
			"from_status", string(from),
			"to_status", string(to),
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) UpdateCommittee(ctx context.Context, cycleID string, voterIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("cycle_id = ?", strings.TrimSpace(cycleID)).
			Delete(&committeeMemberModel{}).Error; err != nil {
			return err
		}
		return replaceCommitteeRows(tx, cycleID, voterIDs)
	})
	if err != nil {
		return r.logError("succession_repo_update_committee_failed", err,
			"cycle_id", strings.TrimSpace(cycleID),
		)
	}
	return nil
}

func (r *Repository) CreatePosition(ctx context.Context, position entities.Position) error {
	row := positionModelFromEntity(position)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("succession_repo_create_position_failed", err,
			"position_id", strings.TrimSpace(position.PositionID),
			"cycle_id", strings.TrimSpace(position.CycleID),
		)
	}
	return nil
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (entities.Position, error) {
	var row positionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(positionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Position{}, domainerrors.ErrPositionNotFound
		}
		return entities.Position{}, r.logError("succession_repo_get_position_failed", err,
			"position_id", strings.TrimSpace(positionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPositions(ctx context.Context, cycleID string) ([]entities.Position, error) {
	var rows []positionModel
	if err := r.db.WithContext(ctx).
		Where("cycle_id = ?", strings.TrimSpace(cycleID)).
		Order("hierarchy_level ASC, title ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("succession_repo_list_positions_failed", err,
			"cycle_id", strings.TrimSpace(cycleID),
		)
	}
	items := make([]entities.Position, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SetPositionActive(ctx context.Context, positionID string, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&positionModel{}).
		Where("id = ?", strings.TrimSpace(positionID)).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return r.logError("succession_repo_set_position_active_failed", result.Error,
			"position_id", strings.TrimSpace(positionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPositionNotFound
	}
	return nil
}

func (r *Repository) listCommittee(ctx context.Context, cycleID string) ([]string, error) {
	var rows []committeeMemberModel
	if err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("voter_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("succession_repo_list_committee_failed", err,
			"cycle_id", cycleID,
		)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.VoterID)
	}
	return ids, nil
}

func replaceCommitteeRows(tx *gorm.DB, cycleID string, voterIDs []string) error {
	for _, voterID := range voterIDs {
		row := committeeMemberModel{
			CycleID: strings.TrimSpace(cycleID),
			VoterID: strings.TrimSpace(voterID),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cycle_id"}, {Name: "voter_id"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+7)
	fields = append(fields,
		"event", event,
		"module", "chapter-operations/succession-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("succession repository operation failed", fields...)
	return err
}

type cycleModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Scope     string    `gorm:"column:scope"`
	Name      string    `gorm:"column:name"`
	Year      int       `gorm:"column:year"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cycleModel) TableName() string {
	return "succession_cycles"
}

func cycleModelFromEntity(cycle entities.Cycle) cycleModel {
	row := cycleModel{
		ID:        strings.TrimSpace(cycle.CycleID),
		Scope:     strings.TrimSpace(cycle.Scope),
		Name:      strings.TrimSpace(cycle.Name),
		Year:      cycle.Year,
		Status:    string(cycle.Status),
		CreatedAt: cycle.CreatedAt.UTC(),
		UpdatedAt: cycle.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m cycleModel) toEntity(voterIDs []string) entities.Cycle {
	return entities.Cycle{
		CycleID:   m.ID,
		Scope:     m.Scope,
		Name:      m.Name,
		Year:      m.Year,
		Status:    entities.CycleStatus(m.Status),
		VoterIDs:  voterIDs,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type committeeMemberModel struct {
	CycleID string `gorm:"column:cycle_id;primaryKey"`
	VoterID string `gorm:"column:voter_id;primaryKey"`
}

func (committeeMemberModel) TableName() string {
	return "cycle_committee_members"
}

type positionModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	CycleID        string    `gorm:"column:cycle_id"`
	Title          string    `gorm:"column:title"`
	HierarchyLevel int       `gorm:"column:hierarchy_level"`
	Openings       int       `gorm:"column:number_of_openings"`
	Active         bool      `gorm:"column:is_active"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (positionModel) TableName() string {
	return "positions"
}

func positionModelFromEntity(position entities.Position) positionModel {
	row := positionModel{
		ID:             strings.TrimSpace(position.PositionID),
		CycleID:        strings.TrimSpace(position.CycleID),
		Title:          strings.TrimSpace(position.Title),
		HierarchyLevel: position.HierarchyLevel,
		Openings:       position.Openings,
		Active:         position.Active,
		CreatedAt:      position.CreatedAt.UTC(),
		UpdatedAt:      position.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID:     m.ID,
		CycleID:        m.CycleID,
		Title:          m.Title,
		HierarchyLevel: m.HierarchyLevel,
		Openings:       m.Openings,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.CycleRepository = (*Repository)(nil)
var _ ports.PositionRepository = (*Repository)(nil)
