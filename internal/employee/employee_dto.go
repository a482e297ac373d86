package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Position         string `json:"position"`
	StaffNumber      string `json:"staff_number"`
	ResidentNumber   string `json:"resident_number" binding:"omitempty,len=14"`
	HireDate         string `json:"hire_date" binding:"required"`
	FamilyCount      int    `json:"family_count" binding:"min=0"`
	ChildCount       int    `json:"child_count" binding:"min=0"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=active on_leave resigned"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Position         string `json:"position"`
	StaffNumber      string `json:"staff_number"`
	ResidentNumber   string `json:"resident_number" binding:"omitempty,len=14"`
	HireDate         string `json:"hire_date" binding:"required"`
	FamilyCount      int    `json:"family_count" binding:"min=0"`
	ChildCount       int    `json:"child_count" binding:"min=0"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=active on_leave resigned"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	ClinicID         string `json:"clinic_id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Position         string `json:"position,omitempty"`
	StaffNumber      string `json:"staff_number"`
	ResidentNumber   string `json:"resident_number,omitempty"`
	HireDate         string `json:"hire_date"`
	FamilyCount      int    `json:"family_count"`
	ChildCount       int    `json:"child_count"`
	EmploymentStatus string `json:"employment_status"`
}

// EmployeeOption is the trimmed shape the statement form dropdown loads.
type EmployeeOption struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	StaffNumber string `json:"staff_number"`
	Position    string `json:"position,omitempty"`
}
