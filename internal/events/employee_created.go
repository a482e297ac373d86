package events

import "time"

const EmployeeCreatedTopic = "clinic.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	ClinicID   string    `json:"clinic_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
