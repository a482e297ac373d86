package events

import "time"

const StatementSavedTopic = "clinic.payroll.statement.saved.v1"

type StatementSavedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	StatementID string    `json:"statement_id"`
	ClinicID    string    `json:"clinic_id"`
	EmployeeID  string    `json:"employee_id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	NetPay      int64     `json:"net_pay"`
	OccurredAt  time.Time `json:"occurred_at"`
}
