package models

import "time"

type StaffRole struct {
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	RoleReceptionist = "receptionist"
	RoleDoctor       = "doctor"
	RoleBilling      = "billing"
	RolePharmacist   = "pharmacist"
	RoleAdmin        = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleReceptionist, RoleDoctor, RoleBilling, RolePharmacist, RoleAdmin:
		return true
	default:
		return false
	}
}

type SmsLog struct {
	LogID        string    `json:"log_id"`
	PatientID    *string   `json:"patient_id,omitempty"`
	QueueEntryID *string   `json:"queue_entry_id,omitempty"`
	PhoneNumber  string    `json:"phone_number"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	ProviderRef  *string   `json:"provider_ref,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

const (
	SmsStatusSent   = "sent"
	SmsStatusFailed = "failed"
)
