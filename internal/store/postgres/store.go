package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pmuigai-sys/hosq/internal/models"
	"github.com/pmuigai-sys/hosq/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const queueNumberPad = 3

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const entryColumns = `
	e.entry_id, e.patient_id, e.current_stage_id, e.queue_number,
	e.has_emergency_flag, e.status, e.checked_in_at, e.completed_at, e.notes,
	p.full_name, p.phone_number, COALESCE(s.display_name, '')
`

const entryJoins = `
	FROM queue_entries e
	JOIN patients p ON p.patient_id = e.patient_id
	LEFT JOIN queue_stages s ON s.stage_id = e.current_stage_id
`

func scanEntry(row pgx.Row) (models.QueueEntry, error) {
	var entry models.QueueEntry
	var stageIDNull sql.NullString
	var completedAtNull sql.NullTime
	var notesNull sql.NullString
	if err := row.Scan(
		&entry.EntryID, &entry.PatientID, &stageIDNull, &entry.QueueNumber,
		&entry.HasEmergencyFlag, &entry.Status, &entry.CheckedInAt, &completedAtNull, &notesNull,
		&entry.PatientName, &entry.PatientPhone, &entry.StageName,
	); err != nil {
		return models.QueueEntry{}, err
	}
	entry.CurrentStageID = nullStringPtr(stageIDNull)
	entry.CompletedAt = nullTimePtr(completedAtNull)
	if notesNull.Valid {
		entry.Notes = notesNull.String
	}
	return entry, nil
}

func (s *Store) Register(ctx context.Context, input store.RegisterInput) (models.QueueEntry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.QueueEntry{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Last registration wins for name/age/reason; phone is the dedup key.
	var patientID string
	row := tx.QueryRow(ctx, `
		INSERT INTO patients (patient_id, phone_number, full_name, age, visit_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (phone_number) DO UPDATE
		SET full_name = EXCLUDED.full_name,
			age = EXCLUDED.age,
			visit_reason = EXCLUDED.visit_reason
		RETURNING patient_id
	`, uuid.NewString(), input.PhoneNumber, input.FullName, input.Age, nullIfEmpty(input.VisitReason), time.Now().UTC())
	if err = row.Scan(&patientID); err != nil {
		return models.QueueEntry{}, err
	}

	var firstStageID, firstStageName string
	row = tx.QueryRow(ctx, `
		SELECT stage_id, display_name
		FROM queue_stages
		WHERE is_active = TRUE
		ORDER BY order_number ASC
		LIMIT 1
	`)
	if err = row.Scan(&firstStageID, &firstStageName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrNoStagesConfigured
		}
		return models.QueueEntry{}, err
	}

	seq, err := nextQueueNumber(ctx, tx)
	if err != nil {
		return models.QueueEntry{}, err
	}
	queueNumber := fmt.Sprintf("Q-%0*d", queueNumberPad, seq)

	checkedInAt := input.CheckedInAt
	if checkedInAt.IsZero() {
		checkedInAt = time.Now().UTC()
	}

	entryID := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO queue_entries (
			entry_id, patient_id, current_stage_id, queue_number,
			has_emergency_flag, status, checked_in_at
		) VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`, entryID, patientID, firstStageID, queueNumber, models.StatusWaiting, checkedInAt)
	if err != nil {
		return models.QueueEntry{}, err
	}

	if err = openInterval(ctx, tx, entryID, firstStageID, checkedInAt); err != nil {
		return models.QueueEntry{}, err
	}

	position, err := waitingRank(ctx, tx, firstStageID, entryID)
	if err != nil {
		return models.QueueEntry{}, err
	}

	entry := models.QueueEntry{
		EntryID:          entryID,
		PatientID:        patientID,
		CurrentStageID:   &firstStageID,
		QueueNumber:      queueNumber,
		HasEmergencyFlag: false,
		Status:           models.StatusWaiting,
		CheckedInAt:      checkedInAt,
		PatientName:      input.FullName,
		PatientPhone:     input.PhoneNumber,
		StageName:        firstStageName,
	}
	if position > 0 {
		entry.PositionInQueue = &position
	}

	if err = insertOutboxEvent(ctx, tx, store.EventCheckedIn, entry); err != nil {
		return models.QueueEntry{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.QueueEntry{}, err
	}
	return entry, nil
}

func (s *Store) GetEntry(ctx context.Context, entryID string) (models.QueueEntry, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+entryColumns+entryJoins+` WHERE e.entry_id = $1`, entryID)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.QueueEntry{}, store.ErrEntryNotFound
		}
		return models.QueueEntry{}, err
	}

	if entry.Status == models.StatusWaiting && entry.CurrentStageID != nil {
		position, err := waitingRank(ctx, s.pool, *entry.CurrentStageID, entry.EntryID)
		if err != nil {
			return models.QueueEntry{}, err
		}
		if position > 0 {
			entry.PositionInQueue = &position
		}
	}
	return entry, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// waitingRank derives the 1-based rank within the stage's waiting set
// through store.RankWaiting, so single-entry reads and registration
// share one ordering definition. Positions are never stored;
// recomputing on read keeps concurrent writers from racing over a
// materialized column.
func waitingRank(ctx context.Context, q querier, stageID, entryID string) (int, error) {
	rows, err := q.Query(ctx, `
		SELECT entry_id, has_emergency_flag, checked_in_at
		FROM queue_entries
		WHERE current_stage_id = $1 AND status = 'waiting'
	`, stageID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var waiting []models.QueueEntry
	for rows.Next() {
		var entry models.QueueEntry
		if err := rows.Scan(&entry.EntryID, &entry.HasEmergencyFlag, &entry.CheckedInAt); err != nil {
			return 0, err
		}
		waiting = append(waiting, entry)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, entry := range store.RankWaiting(waiting) {
		if entry.EntryID == entryID {
			return *entry.PositionInQueue, nil
		}
	}
	return 0, nil
}

func (s *Store) ListEntries(ctx context.Context, stageID, status string) ([]models.QueueEntry, error) {
	query := `SELECT ` + entryColumns + `,
		CASE WHEN e.status = 'waiting' THEN ROW_NUMBER() OVER (
			PARTITION BY e.current_stage_id, e.status
			ORDER BY e.has_emergency_flag DESC, e.checked_in_at ASC, e.entry_id ASC
		) END AS pos
	` + entryJoins + ` WHERE 1=1`
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND e.status = $%d", len(args))
	}
	if stageID != "" {
		args = append(args, stageID)
		query += fmt.Sprintf(" AND e.current_stage_id = $%d", len(args))
	}
	query += " ORDER BY e.has_emergency_flag DESC, e.checked_in_at ASC, e.entry_id ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.QueueEntry
	for rows.Next() {
		var entry models.QueueEntry
		var stageIDNull sql.NullString
		var completedAtNull sql.NullTime
		var notesNull sql.NullString
		var posNull sql.NullInt64
		if err := rows.Scan(
			&entry.EntryID, &entry.PatientID, &stageIDNull, &entry.QueueNumber,
			&entry.HasEmergencyFlag, &entry.Status, &entry.CheckedInAt, &completedAtNull, &notesNull,
			&entry.PatientName, &entry.PatientPhone, &entry.StageName, &posNull,
		); err != nil {
			return nil, err
		}
		entry.CurrentStageID = nullStringPtr(stageIDNull)
		entry.CompletedAt = nullTimePtr(completedAtNull)
		if notesNull.Valid {
			entry.Notes = notesNull.String
		}
		if posNull.Valid {
			position := int(posNull.Int64)
			entry.PositionInQueue = &position
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) CallNext(ctx context.Context, input store.CallInput) (models.QueueEntry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.QueueEntry{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// The row lock serializes concurrent callers: of two, exactly one
	// sees the waiting status; the loser observes in_service and fails
	// the transition check.
	status, err := lockEntryStatus(ctx, tx, input.EntryID)
	if err != nil {
		return models.QueueEntry{}, err
	}
	if !store.ValidTransition("call", status) {
		err = store.ErrInvalidTransition
		return models.QueueEntry{}, err
	}

	row := tx.QueryRow(ctx, `
		WITH updated AS (
			UPDATE queue_entries
			SET status = 'in_service'
			WHERE entry_id = $1
			RETURNING *
		)
		SELECT `+entryColumns+`
		FROM updated e
		JOIN patients p ON p.patient_id = e.patient_id
		LEFT JOIN queue_stages s ON s.stage_id = e.current_stage_id
	`, input.EntryID)
	entry, err := scanEntry(row)
	if err != nil {
		return models.QueueEntry{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE queue_history
		SET served_by_user_id = $2
		WHERE queue_entry_id = $1 AND exited_at IS NULL
	`, input.EntryID, input.ActorUserID)
	if err != nil {
		return models.QueueEntry{}, err
	}

	if err = insertOutboxEvent(ctx, tx, store.EventCalled, entry); err != nil {
		return models.QueueEntry{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.QueueEntry{}, err
	}
	return entry, nil
}

func (s *Store) CompleteStage(ctx context.Context, input store.CompleteInput) (models.QueueEntry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.QueueEntry{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var entry models.QueueEntry
	var stageID string
	var stageOrder int
	row := tx.QueryRow(ctx, `
		SELECT e.entry_id, e.patient_id, e.current_stage_id, e.queue_number,
			e.has_emergency_flag, e.status, e.checked_in_at, p.full_name, p.phone_number, s.order_number
		FROM queue_entries e
		JOIN patients p ON p.patient_id = e.patient_id
		JOIN queue_stages s ON s.stage_id = e.current_stage_id
		WHERE e.entry_id = $1
		FOR UPDATE OF e
	`, input.EntryID)
	if err = row.Scan(&entry.EntryID, &entry.PatientID, &stageID, &entry.QueueNumber,
		&entry.HasEmergencyFlag, &entry.Status, &entry.CheckedInAt, &entry.PatientName, &entry.PatientPhone, &stageOrder); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrEntryNotFound
		}
		return models.QueueEntry{}, err
	}
	if !store.ValidTransition("complete", entry.Status) {
		err = store.ErrInvalidTransition
		return models.QueueEntry{}, err
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	if err = closeOpenInterval(ctx, tx, input.EntryID, occurredAt); err != nil {
		return models.QueueEntry{}, err
	}

	var nextStageID, nextStageName string
	haveNext := false
	if input.Advance {
		row = tx.QueryRow(ctx, `
			SELECT stage_id, display_name
			FROM queue_stages
			WHERE is_active = TRUE AND order_number > $1
			ORDER BY order_number ASC
			LIMIT 1
		`, stageOrder)
		switch err = row.Scan(&nextStageID, &nextStageName); {
		case err == nil:
			haveNext = true
		case errors.Is(err, pgx.ErrNoRows):
			err = nil
		default:
			return models.QueueEntry{}, err
		}
	}

	if haveNext {
		_, err = tx.Exec(ctx, `
			UPDATE queue_entries
			SET current_stage_id = $2, status = 'waiting'
			WHERE entry_id = $1
		`, input.EntryID, nextStageID)
		if err != nil {
			return models.QueueEntry{}, err
		}
		if err = openInterval(ctx, tx, input.EntryID, nextStageID, occurredAt); err != nil {
			return models.QueueEntry{}, err
		}
		entry.CurrentStageID = &nextStageID
		entry.StageName = nextStageName
		entry.Status = models.StatusWaiting
		if err = insertOutboxEvent(ctx, tx, store.EventStageChanged, entry); err != nil {
			return models.QueueEntry{}, err
		}
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE queue_entries
			SET status = 'completed', completed_at = $2
			WHERE entry_id = $1
		`, input.EntryID, occurredAt)
		if err != nil {
			return models.QueueEntry{}, err
		}
		entry.CurrentStageID = &stageID
		entry.Status = models.StatusCompleted
		entry.CompletedAt = &occurredAt
		if err = insertOutboxEvent(ctx, tx, store.EventCompleted, entry); err != nil {
			return models.QueueEntry{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return models.QueueEntry{}, err
	}
	return entry, nil
}

func (s *Store) AddEmergencyFlag(ctx context.Context, input store.FlagInput) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var flagActive bool
	row := tx.QueryRow(ctx, `SELECT is_active FROM emergency_flags WHERE flag_id = $1`, input.FlagID)
	if err = row.Scan(&flagActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrFlagNotFound
		}
		return err
	}
	if !flagActive {
		err = store.ErrInvalidTransition
		return err
	}

	status, err := lockEntryStatus(ctx, tx, input.EntryID)
	if err != nil {
		return err
	}
	if !store.ValidTransition("flag", status) {
		err = store.ErrInvalidTransition
		return err
	}

	row = tx.QueryRow(ctx, `
		WITH updated AS (
			UPDATE queue_entries
			SET has_emergency_flag = TRUE
			WHERE entry_id = $1
			RETURNING *
		)
		SELECT `+entryColumns+`
		FROM updated e
		JOIN patients p ON p.patient_id = e.patient_id
		LEFT JOIN queue_stages s ON s.stage_id = e.current_stage_id
	`, input.EntryID)
	entry, err := scanEntry(row)
	if err != nil {
		return err
	}

	notedAt := input.NotedAt
	if notedAt.IsZero() {
		notedAt = time.Now().UTC()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO patient_emergency_flags (mark_id, queue_entry_id, emergency_flag_id, noted_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), input.EntryID, input.FlagID, input.ActorUserID, notedAt)
	if err != nil {
		return err
	}

	if err = insertOutboxEvent(ctx, tx, store.EventFlagged, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// lockEntryStatus takes the row lock that serializes competing
// transitions and reports the status the caller must validate
// through store.ValidTransition.
func lockEntryStatus(ctx context.Context, tx pgx.Tx, entryID string) (string, error) {
	var status string
	row := tx.QueryRow(ctx, `
		SELECT status FROM queue_entries WHERE entry_id = $1 FOR UPDATE
	`, entryID)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", store.ErrEntryNotFound
		}
		return "", err
	}
	return status, nil
}

func (s *Store) ListHistory(ctx context.Context, entryID string) ([]models.HistoryRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT record_id, queue_entry_id, stage_id, entered_at, exited_at, served_by_user_id
		FROM queue_history
		WHERE queue_entry_id = $1
		ORDER BY entered_at ASC
	`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var record models.HistoryRecord
		var exitedAtNull sql.NullTime
		var servedByNull sql.NullString
		if err := rows.Scan(&record.RecordID, &record.QueueEntryID, &record.StageID,
			&record.EnteredAt, &exitedAtNull, &servedByNull); err != nil {
			return nil, err
		}
		record.ExitedAt = nullTimePtr(exitedAtNull)
		record.ServedByUserID = nullStringPtr(servedByNull)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func openInterval(ctx context.Context, tx pgx.Tx, entryID, stageID string, enteredAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO queue_history (record_id, queue_entry_id, stage_id, entered_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), entryID, stageID, enteredAt)
	return err
}

func closeOpenInterval(ctx context.Context, tx pgx.Tx, entryID string, exitedAt time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE queue_history
		SET exited_at = $2
		WHERE queue_entry_id = $1 AND exited_at IS NULL
	`, entryID, exitedAt)
	return err
}

func nextQueueNumber(ctx context.Context, tx pgx.Tx) (int64, error) {
	var next int64
	row := tx.QueryRow(ctx, `
		INSERT INTO queue_sequences (sequence_id, next_number)
		VALUES ('global', 1)
		ON CONFLICT (sequence_id)
		DO UPDATE SET next_number = queue_sequences.next_number + 1
		RETURNING next_number
	`)
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func insertOutboxEvent(ctx context.Context, tx pgx.Tx, eventType string, entry models.QueueEntry) error {
	payload := map[string]interface{}{
		"entry_id":     entry.EntryID,
		"patient_id":   entry.PatientID,
		"queue_number": entry.QueueNumber,
		"status":       entry.Status,
		"stage_id":     entry.CurrentStageID,
		"stage_name":   entry.StageName,
		"full_name":    entry.PatientName,
		"phone":        entry.PatientPhone,
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO outbox_events (event_id, type, payload_json, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), eventType, payloadJSON, time.Now().UTC())
	return err
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

func (s *Store) CreateStage(ctx context.Context, stage models.Stage) (models.Stage, error) {
	stage.StageID = uuid.NewString()
	stage.IsActive = true
	_, err := s.pool.Exec(ctx, `
		INSERT INTO queue_stages (stage_id, name, display_name, order_number, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, stage.StageID, stage.Name, stage.DisplayName, stage.OrderNumber)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Stage{}, store.ErrDuplicateStage
		}
		return models.Stage{}, err
	}
	return stage, nil
}

func (s *Store) ListStages(ctx context.Context, activeOnly bool) ([]models.Stage, error) {
	query := `
		SELECT stage_id, name, display_name, order_number, is_active
		FROM queue_stages
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY order_number ASC"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []models.Stage
	for rows.Next() {
		var stage models.Stage
		if err := rows.Scan(&stage.StageID, &stage.Name, &stage.DisplayName, &stage.OrderNumber, &stage.IsActive); err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stages, nil
}

func (s *Store) SetStageActive(ctx context.Context, stageID string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE queue_stages SET is_active = $2 WHERE stage_id = $1
	`, stageID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrStageNotFound
	}
	return nil
}

func (s *Store) CreateFlag(ctx context.Context, flag models.EmergencyFlag) (models.EmergencyFlag, error) {
	flag.FlagID = uuid.NewString()
	flag.IsActive = true
	_, err := s.pool.Exec(ctx, `
		INSERT INTO emergency_flags (flag_id, name, description, is_active)
		VALUES ($1, $2, $3, TRUE)
	`, flag.FlagID, flag.Name, nullIfEmpty(flag.Description))
	if err != nil {
		return models.EmergencyFlag{}, err
	}
	return flag, nil
}

func (s *Store) ListFlags(ctx context.Context, activeOnly bool) ([]models.EmergencyFlag, error) {
	query := `
		SELECT flag_id, name, COALESCE(description, ''), is_active
		FROM emergency_flags
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flags []models.EmergencyFlag
	for rows.Next() {
		var flag models.EmergencyFlag
		if err := rows.Scan(&flag.FlagID, &flag.Name, &flag.Description, &flag.IsActive); err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return flags, nil
}

func (s *Store) SetFlagActive(ctx context.Context, flagID string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE emergency_flags SET is_active = $2 WHERE flag_id = $1
	`, flagID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrFlagNotFound
	}
	return nil
}

func (s *Store) CreateStaff(ctx context.Context, input store.CreateStaffInput) (models.StaffRole, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Secret), bcrypt.DefaultCost)
	if err != nil {
		return models.StaffRole{}, err
	}
	createdAt := time.Now().UTC()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO staff_roles (user_id, role, department, secret_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, TRUE, $5)
	`, input.UserID, input.Role, nullIfEmpty(input.Department), string(hash), createdAt)
	if err != nil {
		return models.StaffRole{}, err
	}
	return models.StaffRole{
		UserID:     input.UserID,
		Role:       input.Role,
		Department: input.Department,
		IsActive:   true,
		CreatedAt:  createdAt,
	}, nil
}

func (s *Store) ListStaff(ctx context.Context) ([]models.StaffRole, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, role, COALESCE(department, ''), is_active, created_at
		FROM staff_roles
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []models.StaffRole
	for rows.Next() {
		var member models.StaffRole
		if err := rows.Scan(&member.UserID, &member.Role, &member.Department, &member.IsActive, &member.CreatedAt); err != nil {
			return nil, err
		}
		staff = append(staff, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *Store) SetStaffActive(ctx context.Context, userID string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE staff_roles SET is_active = $2 WHERE user_id = $1
	`, userID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrStaffNotFound
	}
	return nil
}

func (s *Store) AuthenticateStaff(ctx context.Context, userID, secret string) (models.StaffRole, error) {
	var member models.StaffRole
	var secretHash string
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, role, COALESCE(department, ''), is_active, created_at, secret_hash
		FROM staff_roles
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&member.UserID, &member.Role, &member.Department, &member.IsActive, &member.CreatedAt, &secretHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.StaffRole{}, store.ErrInvalidCredentials
		}
		return models.StaffRole{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)); err != nil {
		return models.StaffRole{}, store.ErrInvalidCredentials
	}
	if !member.IsActive {
		return models.StaffRole{}, store.ErrAccessDenied
	}
	return member, nil
}

func (s *Store) ListSmsLogs(ctx context.Context, entryID string) ([]models.SmsLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT log_id, patient_id, queue_entry_id, phone_number, message, status, provider_ref, sent_at
		FROM sms_logs
		WHERE queue_entry_id = $1
		ORDER BY sent_at ASC
	`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.SmsLog
	for rows.Next() {
		var entry models.SmsLog
		var patientIDNull, entryIDNull, providerRefNull sql.NullString
		if err := rows.Scan(&entry.LogID, &patientIDNull, &entryIDNull, &entry.PhoneNumber,
			&entry.Message, &entry.Status, &providerRefNull, &entry.SentAt); err != nil {
			return nil, err
		}
		entry.PatientID = nullStringPtr(patientIDNull)
		entry.QueueEntryID = nullStringPtr(entryIDNull)
		entry.ProviderRef = nullStringPtr(providerRefNull)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
