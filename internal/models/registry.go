package models

import "time"

type Stage struct {
	StageID     string `json:"stage_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	OrderNumber int    `json:"order_number"`
	IsActive    bool   `json:"is_active"`
}

type EmergencyFlag struct {
	FlagID      string `json:"flag_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type Patient struct {
	PatientID   string    `json:"patient_id"`
	PhoneNumber string    `json:"phone_number"`
	FullName    string    `json:"full_name"`
	Age         *int      `json:"age,omitempty"`
	VisitReason string    `json:"visit_reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
