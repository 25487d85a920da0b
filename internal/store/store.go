package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pmuigai-sys/hosq/internal/models"
)

type RegisterInput struct {
	PhoneNumber string
	FullName    string
	Age         *int
	VisitReason string
	CheckedInAt time.Time
}

type CallInput struct {
	EntryID     string
	ActorUserID string
}

type CompleteInput struct {
	EntryID     string
	Advance     bool
	ActorUserID string
	OccurredAt  time.Time
}

type FlagInput struct {
	EntryID     string
	FlagID      string
	ActorUserID string
	NotedAt     time.Time
}

type CreateStaffInput struct {
	UserID     string
	Role       string
	Department string
	Secret     string
}

// QueueStore is the persistence boundary of the queue engine. Each
// mutating call applies the entry update, the history mutation, and
// the outbox insert as one transaction.
type QueueStore interface {
	Register(ctx context.Context, input RegisterInput) (models.QueueEntry, error)
	GetEntry(ctx context.Context, entryID string) (models.QueueEntry, error)
	ListEntries(ctx context.Context, stageID, status string) ([]models.QueueEntry, error)
	CallNext(ctx context.Context, input CallInput) (models.QueueEntry, error)
	CompleteStage(ctx context.Context, input CompleteInput) (models.QueueEntry, error)
	AddEmergencyFlag(ctx context.Context, input FlagInput) error
	ListHistory(ctx context.Context, entryID string) ([]models.HistoryRecord, error)
	ListSmsLogs(ctx context.Context, entryID string) ([]models.SmsLog, error)

	CreateStage(ctx context.Context, stage models.Stage) (models.Stage, error)
	ListStages(ctx context.Context, activeOnly bool) ([]models.Stage, error)
	SetStageActive(ctx context.Context, stageID string, active bool) error

	CreateFlag(ctx context.Context, flag models.EmergencyFlag) (models.EmergencyFlag, error)
	ListFlags(ctx context.Context, activeOnly bool) ([]models.EmergencyFlag, error)
	SetFlagActive(ctx context.Context, flagID string, active bool) error

	CreateStaff(ctx context.Context, input CreateStaffInput) (models.StaffRole, error)
	ListStaff(ctx context.Context) ([]models.StaffRole, error)
	SetStaffActive(ctx context.Context, userID string, active bool) error
	AuthenticateStaff(ctx context.Context, userID, secret string) (models.StaffRole, error)
}

// NotifierStore is consumed by the SMS worker. The (created_at,
// event_id) tuple cursor survives events that share a timestamp
// across a batch boundary.
type NotifierStore interface {
	ListOutboxEvents(ctx context.Context, offset OutboxOffset, limit int) ([]OutboxEvent, error)
	GetLastOffset(ctx context.Context) (OutboxOffset, error)
	UpdateOffset(ctx context.Context, offset OutboxOffset) error
	InsertSmsLog(ctx context.Context, entry models.SmsLog) error
}

// WatcherStore is consumed by the tracker broadcaster.
type WatcherStore interface {
	ListOutboxEvents(ctx context.Context, offset OutboxOffset, limit int) ([]OutboxEvent, error)
	GetWatcherOffset(ctx context.Context) (OutboxOffset, error)
	UpdateWatcherOffset(ctx context.Context, offset OutboxOffset) error
	GetNotifierOffset(ctx context.Context) (time.Time, error)
	CleanupOutbox(ctx context.Context, before time.Time) error
}

type OutboxEvent struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

type OutboxOffset struct {
	LastEventTime time.Time
	LastEventID   string
}

const (
	EventCheckedIn    = "queue.checked_in"
	EventCalled       = "queue.called"
	EventStageChanged = "queue.stage_changed"
	EventCompleted    = "queue.completed"
	EventFlagged      = "queue.flagged"
)
