package events

import "time"

const SalarySettingAppliedTopic = "clinic.payroll.setting.applied.v1"

// SalarySettingAppliedEvent is emitted after a salary setting save. When the
// caller opted in to rewriting history, UpdatedStatements carries how many
// past statements were recomputed.
type SalarySettingAppliedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id,omitempty"`
	ClinicID          string    `json:"clinic_id"`
	EmployeeID        string    `json:"employee_id"`
	AppliedToPast     bool      `json:"applied_to_past"`
	UpdatedStatements int       `json:"updated_statements"`
	OccurredAt        time.Time `json:"occurred_at"`
}
