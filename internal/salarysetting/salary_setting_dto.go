package salarysetting

type SaveSalarySettingRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required,uuid"`
	SalaryType       string `json:"salary_type" binding:"required,oneof=net gross"`
	TargetAmount     int64  `json:"target_amount" binding:"required,min=1"`
	MealAllowance    int64  `json:"meal_allowance" binding:"min=0"`
	VehicleAllowance int64  `json:"vehicle_allowance" binding:"min=0"`
	Bonus            int64  `json:"bonus" binding:"min=0"`
	FamilyCount      int    `json:"family_count" binding:"min=1"`
	ChildCount       int    `json:"child_count" binding:"min=0"`
	PaymentDay       int    `json:"payment_day" binding:"min=0,max=31"`

	// ApplyToPast opts in to recomputing already saved statements with the
	// new template. Never implied by a plain save.
	ApplyToPast bool `json:"apply_to_past"`
}

type SalarySettingResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	EmployeeName     string `json:"employee_name,omitempty"`
	SalaryType       string `json:"salary_type"`
	TargetAmount     int64  `json:"target_amount"`
	MealAllowance    int64  `json:"meal_allowance"`
	VehicleAllowance int64  `json:"vehicle_allowance"`
	Bonus            int64  `json:"bonus"`
	FamilyCount      int    `json:"family_count"`
	ChildCount       int    `json:"child_count"`
	PaymentDay       int    `json:"payment_day"`
}

type SaveSalarySettingResponse struct {
	Setting SalarySettingResponse `json:"setting"`
	// Number of past statements rewritten; zero unless apply_to_past.
	UpdatedStatementsCount int `json:"updated_statements_count"`
}
