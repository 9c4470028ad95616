package models

// DepartmentStat is the derived per-department progress aggregate. It is
// recomputed on every request that needs it and never persisted.
type DepartmentStat struct {
	Name               string `json:"name"`
	TotalRegulations   int    `json:"totalRegulations"`
	YearlyDue          int    `json:"yearlyDue"`
	CurrentMonthDue    int    `json:"currentMonthDue"`
	CompletedToDate    int    `json:"completedToDate"`
	ProgressPercentage int    `json:"progressPercentage"`
}

// DashboardStats is the top-level dashboard summary.
type DashboardStats struct {
	TotalRegulations int `json:"totalRegulations"`
	TotalDepartments int `json:"totalDepartments"`
	RiskItems        int `json:"riskItems"`
	YearlyAmendments int `json:"yearlyAmendments"`
}

// AmendmentSummaryItem is the reduced regulation shape used by the
// dashboard amendment listings.
type AmendmentSummaryItem struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	EffectiveDate string `json:"effectiveDate"`
	Department    string `json:"department"`
}

// DispatchResult is the per-department outcome of an analysis-and-notify
// run. A failed send for one department does not abort the run; callers get
// the full list and decide for themselves what partial failure means.
type DispatchResult struct {
	Department  string `json:"department"`
	Email       string `json:"email,omitempty"`
	Regulations int    `json:"regulations"`
	Sent        bool   `json:"sent"`
	Error       string `json:"error,omitempty"`
}
