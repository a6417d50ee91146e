package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"

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

func (r *Repository) SaveMeeting(ctx context.Context, meeting entities.Meeting) error {
	row := meetingModelFromEntity(meeting)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("ballot_repo_save_meeting_failed", err,
			"meeting_id", strings.TrimSpace(meeting.MeetingID),
			"cycle_id", strings.TrimSpace(meeting.CycleID),
		)
	}
	return nil
}

func (r *Repository) GetMeeting(ctx context.Context, meetingID string) (entities.Meeting, error) {
	var row meetingModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(meetingID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Meeting{}, domainerrors.ErrMeetingNotFound
		}
		return entities.Meeting{}, r.logError("ballot_repo_get_meeting_failed", err,
			"meeting_id", strings.TrimSpace(meetingID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMeetings(ctx context.Context, filter ports.MeetingFilter) ([]entities.Meeting, error) {
	tx := r.db.WithContext(ctx).Model(&meetingModel{})
	if filter.CycleID != "" {
		tx = tx.Where("cycle_id = ?", filter.CycleID)
	}
	if filter.Type != "" {
		tx = tx.Where("meeting_type = ?", string(filter.Type))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	var rows []meetingModel
	if err := tx.Order("meeting_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("ballot_repo_list_meetings_failed", err,
			"cycle_id", filter.CycleID,
		)
	}
	items := make([]entities.Meeting, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// TransitionMeetingStatus updates only while the row still holds the expected
// status, so racing transitions cannot both apply.
func (r *Repository) TransitionMeetingStatus(
	ctx context.Context,
	meetingID string,
	from, next entities.MeetingStatus,
	updatedAt time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&meetingModel{}).
		Where("id = ?", strings.TrimSpace(meetingID)).
		Where("status = ?", string(from)).
		Updates(map[string]any{
			"status":     string(next),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("ballot_repo_transition_meeting_failed", result.Error,
			"meeting_id", strings.TrimSpace(meetingID),
			"status", string(next),
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) UpdateMeetingNotes(ctx context.Context, meetingID string, notes string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&meetingModel{}).
		Where("id = ?", strings.TrimSpace(meetingID)).
		Updates(map[string]any{
			"notes":      notes,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("ballot_repo_update_notes_failed", result.Error,
			"meeting_id", strings.TrimSpace(meetingID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMeetingNotFound
	}
	return nil
}

// UpsertVote relies on the unique index over (meeting_id, voter_id,
// nominee_id). A conflicting insert mutates only the revisable columns, so
// vote identity and first-cast time survive resubmission.
func (r *Repository) UpsertVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "meeting_id"},
				{Name: "voter_id"},
				{Name: "nominee_id"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"choice":     row.Choice,
				"comments":   row.Comments,
				"updated_at": row.UpdatedAt,
			}),
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("ballot_repo_upsert_vote_failed", err,
			"meeting_id", row.MeetingID,
			"voter_id", row.VoterID,
			"nominee_id", row.NomineeID,
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, meetingID, voterID, nomineeID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", strings.TrimSpace(meetingID)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Where("nominee_id = ?", strings.TrimSpace(nomineeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("ballot_repo_get_vote_failed", err,
			"meeting_id", strings.TrimSpace(meetingID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesByMeeting(ctx context.Context, meetingID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", strings.TrimSpace(meetingID)).
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_votes_failed", err,
			"meeting_id", strings.TrimSpace(meetingID),
		)
	}
	return voteEntities(rows), nil
}

func (r *Repository) ListVotesByVoter(ctx context.Context, meetingID, voterID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", strings.TrimSpace(meetingID)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_voter_votes_failed", err,
			"meeting_id", strings.TrimSpace(meetingID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return voteEntities(rows), nil
}

func (r *Repository) ListBindingVotes(ctx context.Context, cycleID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Joins("JOIN meetings ON meetings.id = votes.meeting_id").
		Where("meetings.cycle_id = ?", strings.TrimSpace(cycleID)).
		Where("meetings.meeting_type = ?", string(entities.MeetingFinalSelection)).
		Where("meetings.status <> ?", string(entities.MeetingCancelled)).
		Order("votes.created_at ASC, votes.id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_binding_votes_failed", err,
			"cycle_id", strings.TrimSpace(cycleID),
		)
	}
	return voteEntities(rows), nil
}

func (r *Repository) AppendOutbox(ctx context.Context, message ports.OutboxMessage) error {
	row := outboxModel{
		ID:           strings.TrimSpace(message.OutboxID),
		EventType:    message.EventType,
		PartitionKey: message.PartitionKey,
		Payload:      message.Payload,
		CreatedAt:    message.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("ballot_repo_append_outbox_failed", err,
			"outbox_id", row.ID,
			"event_type", row.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	tx := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at ASC, id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []outboxModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("ballot_repo_list_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	sent := sentAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Update("sent_at", &sent)
	if result.Error != nil {
		return r.logError("ballot_repo_mark_outbox_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
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
		return ports.CycleProjection{}, r.logError("ballot_repo_get_cycle_failed", err,
			"cycle_id", strings.TrimSpace(cycleID),
		)
	}

	var members []committeeMemberModel
	err = r.db.WithContext(ctx).
		Where("cycle_id = ?", row.ID).
		Order("voter_id ASC").
		Find(&members).
		Error
	if err != nil {
		return ports.CycleProjection{}, r.logError("ballot_repo_get_committee_failed", err,
			"cycle_id", row.ID,
		)
	}
	voterIDs := make([]string, 0, len(members))
	for _, member := range members {
		voterIDs = append(voterIDs, member.VoterID)
	}
	return ports.CycleProjection{
		CycleID:  row.ID,
		Scope:    row.Scope,
		Status:   row.Status,
		VoterIDs: voterIDs,
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
		return ports.PositionProjection{}, r.logError("ballot_repo_get_position_failed", err,
			"position_id", strings.TrimSpace(positionID),
		)
	}
	return row.toProjection(), nil
}

func (r *Repository) ListPositionsByCycle(ctx context.Context, cycleID string) ([]ports.PositionProjection, error) {
	var rows []positionProjectionModel
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", strings.TrimSpace(cycleID)).
		Order("hierarchy_level ASC, title ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_positions_failed", err,
			"cycle_id", strings.TrimSpace(cycleID),
		)
	}
	items := make([]ports.PositionProjection, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toProjection())
	}
	return items, nil
}

func (r *Repository) GetNomination(ctx context.Context, nominationID string) (ports.NominationProjection, error) {
	var row nominationProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(nominationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.NominationProjection{}, domainerrors.ErrNomineeNotOnBallot
		}
		return ports.NominationProjection{}, r.logError("ballot_repo_get_nomination_failed", err,
			"nomination_id", strings.TrimSpace(nominationID),
		)
	}
	return row.toProjection(), nil
}

func (r *Repository) ListApprovedNominations(ctx context.Context, cycleID string) ([]ports.NominationProjection, error) {
	var rows []nominationProjectionModel
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", strings.TrimSpace(cycleID)).
		Where("status = ?", "approved").
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_nominations_failed", err,
			"cycle_id", strings.TrimSpace(cycleID),
		)
	}
	items := make([]ports.NominationProjection, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toProjection())
	}
	return items, nil
}

func (r *Repository) GetCandidateSummary(ctx context.Context, candidateID string) (ports.CandidateSummary, bool, error) {
	var row memberDirectoryModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CandidateSummary{}, false, nil
		}
		return ports.CandidateSummary{}, false, r.logError("ballot_repo_get_candidate_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return ports.CandidateSummary{
		CandidateID: row.ID,
		Name:        row.FullName,
		Email:       row.Email,
	}, true, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+7)
	fields = append(fields,
		"event", event,
		"module", "chapter-operations/ballot-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("ballot repository operation failed", fields...)
	return err
}

type meetingModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	CycleID     string    `gorm:"column:cycle_id"`
	MeetingType string    `gorm:"column:meeting_type"`
	Status      string    `gorm:"column:status"`
	MeetingDate time.Time `gorm:"column:meeting_date"`
	Location    string    `gorm:"column:location"`
	MeetingLink string    `gorm:"column:meeting_link"`
	Agenda      string    `gorm:"column:agenda"`
	Notes       string    `gorm:"column:notes"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (meetingModel) TableName() string {
	return "meetings"
}

func meetingModelFromEntity(meeting entities.Meeting) meetingModel {
	return meetingModel{
		ID:          strings.TrimSpace(meeting.MeetingID),
		CycleID:     strings.TrimSpace(meeting.CycleID),
		MeetingType: string(meeting.Type),
		Status:      string(meeting.Status),
		MeetingDate: meeting.MeetingDate.UTC(),
		Location:    meeting.Location,
		MeetingLink: meeting.MeetingLink,
		Agenda:      meeting.Agenda,
		Notes:       meeting.Notes,
		CreatedAt:   meeting.CreatedAt.UTC(),
		UpdatedAt:   meeting.UpdatedAt.UTC(),
	}
}

func (m meetingModel) toEntity() entities.Meeting {
	return entities.Meeting{
		MeetingID:   m.ID,
		CycleID:     m.CycleID,
		Type:        entities.MeetingType(m.MeetingType),
		Status:      entities.MeetingStatus(m.Status),
		MeetingDate: m.MeetingDate.UTC(),
		Location:    m.Location,
		MeetingLink: m.MeetingLink,
		Agenda:      m.Agenda,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type voteModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	MeetingID  string    `gorm:"column:meeting_id"`
	VoterID    string    `gorm:"column:voter_id"`
	NomineeID  string    `gorm:"column:nominee_id"`
	PositionID string    `gorm:"column:position_id"`
	Choice     string    `gorm:"column:choice"`
	Comments   string    `gorm:"column:comments"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		ID:         strings.TrimSpace(vote.VoteID),
		MeetingID:  strings.TrimSpace(vote.MeetingID),
		VoterID:    strings.TrimSpace(vote.VoterID),
		NomineeID:  strings.TrimSpace(vote.NomineeID),
		PositionID: strings.TrimSpace(vote.PositionID),
		Choice:     string(vote.Choice),
		Comments:   vote.Comments,
		CreatedAt:  vote.CreatedAt.UTC(),
		UpdatedAt:  vote.UpdatedAt.UTC(),
	}
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:     m.ID,
		MeetingID:  m.MeetingID,
		VoterID:    m.VoterID,
		NomineeID:  m.NomineeID,
		PositionID: m.PositionID,
		Choice:     entities.VoteChoice(m.Choice),
		Comments:   m.Comments,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func voteEntities(rows []voteModel) []entities.Vote {
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "ballot_outbox"
}

type cycleProjectionModel struct {
	ID     string `gorm:"column:id"`
	Scope  string `gorm:"column:scope"`
	Status string `gorm:"column:status"`
}

func (cycleProjectionModel) TableName() string {
	return "succession_cycles"
}

type committeeMemberModel struct {
	CycleID string `gorm:"column:cycle_id"`
	VoterID string `gorm:"column:voter_id"`
}

func (committeeMemberModel) TableName() string {
	return "cycle_committee_members"
}

type positionProjectionModel struct {
	ID             string `gorm:"column:id"`
	CycleID        string `gorm:"column:cycle_id"`
	Title          string `gorm:"column:title"`
	HierarchyLevel int    `gorm:"column:hierarchy_level"`
	Openings       int    `gorm:"column:number_of_openings"`
	Active         bool   `gorm:"column:is_active"`
}

func (positionProjectionModel) TableName() string {
	return "positions"
}

func (m positionProjectionModel) toProjection() ports.PositionProjection {
	return ports.PositionProjection{
		PositionID:     m.ID,
		CycleID:        m.CycleID,
		Title:          m.Title,
		HierarchyLevel: m.HierarchyLevel,
		Openings:       m.Openings,
		Active:         m.Active,
	}
}

type nominationProjectionModel struct {
	ID          string    `gorm:"column:id"`
	CycleID     string    `gorm:"column:cycle_id"`
	PositionID  string    `gorm:"column:position_id"`
	CandidateID string    `gorm:"column:candidate_id"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (nominationProjectionModel) TableName() string {
	return "nominations"
}

func (m nominationProjectionModel) toProjection() ports.NominationProjection {
	return ports.NominationProjection{
		NominationID: m.ID,
		CycleID:      m.CycleID,
		PositionID:   m.PositionID,
		NomineeID:    m.CandidateID,
		Status:       m.Status,
		SubmittedAt:  m.CreatedAt.UTC(),
	}
}

type memberDirectoryModel struct {
	ID       string `gorm:"column:id"`
	FullName string `gorm:"column:full_name"`
	Email    string `gorm:"column:email"`
}

func (memberDirectoryModel) TableName() string {
	return "chapter_members"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.MeetingRepository = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.CycleReader = (*Repository)(nil)
var _ ports.PositionReader = (*Repository)(nil)
var _ ports.NominationReader = (*Repository)(nil)
var _ ports.CandidateDirectory = (*Repository)(nil)
