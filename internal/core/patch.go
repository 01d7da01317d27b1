package core

import "time"

// ProjectPatch is a partial update: only non-nil fields are applied.
type ProjectPatch struct {
	Name            *string        `json:"name"`
	Client          *string        `json:"client"`
	DealValue       *float64       `json:"deal_value"`
	BudgetHours     *float64       `json:"budget_hours"`
	HourlyRate      *float64       `json:"hourly_rate"`
	OnsiteRate      *float64       `json:"onsite_hourly_rate"`
	BonusRate       *float64       `json:"bonus_rate"`
	Status          *ProjectStatus `json:"status"`
	ProjectManager  *string        `json:"project_manager"`
	CustomerContact *string        `json:"customer_contact"`
	StartDate       *time.Time     `json:"start_date"`
}

// Apply merges the patch into a copy of p and returns it. The result is
// validated by the caller before persisting.
func (patch ProjectPatch) Apply(p Project) Project {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Client != nil {
		p.Client = *patch.Client
	}
	if patch.DealValue != nil {
		p.DealValue = patch.DealValue
	}
	if patch.BudgetHours != nil {
		p.BudgetHours = patch.BudgetHours
	}
	if patch.HourlyRate != nil {
		p.HourlyRate = patch.HourlyRate
	}
	if patch.OnsiteRate != nil {
		p.OnsiteRate = patch.OnsiteRate
	}
	if patch.BonusRate != nil {
		p.BonusRate = *patch.BonusRate
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.ProjectManager != nil {
		p.ProjectManager = *patch.ProjectManager
	}
	if patch.CustomerContact != nil {
		p.CustomerContact = *patch.CustomerContact
	}
	if patch.StartDate != nil {
		p.StartDate = patch.StartDate
	}
	return p
}
