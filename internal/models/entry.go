package models

import "time"

type QueueEntry struct {
	EntryID          string     `json:"entry_id"`
	PatientID        string     `json:"patient_id"`
	CurrentStageID   *string    `json:"current_stage_id,omitempty"`
	QueueNumber      string     `json:"queue_number"`
	PositionInQueue  *int       `json:"position_in_queue,omitempty"`
	HasEmergencyFlag bool       `json:"has_emergency_flag"`
	Status           string     `json:"status"`
	CheckedInAt      time.Time  `json:"checked_in_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	PatientName      string     `json:"patient_name,omitempty"`
	PatientPhone     string     `json:"patient_phone,omitempty"`
	StageName        string     `json:"stage_name,omitempty"`
}

const (
	StatusWaiting   = "waiting"
	StatusInService = "in_service"
	StatusCompleted = "completed"
)

type HistoryRecord struct {
	RecordID       string     `json:"record_id"`
	QueueEntryID   string     `json:"queue_entry_id"`
	StageID        string     `json:"stage_id"`
	EnteredAt      time.Time  `json:"entered_at"`
	ExitedAt       *time.Time `json:"exited_at,omitempty"`
	ServedByUserID *string    `json:"served_by_user_id,omitempty"`
}

type EmergencyFlagMark struct {
	MarkID          string    `json:"mark_id"`
	QueueEntryID    string    `json:"queue_entry_id"`
	EmergencyFlagID string    `json:"emergency_flag_id"`
	NotedByUserID   string    `json:"noted_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}
