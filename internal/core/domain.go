package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusActive    ProjectStatus = "active"
	StatusPaused    ProjectStatus = "paused"
	StatusCompleted ProjectStatus = "completed"
)

type (
	ProjectStatus string

	// Project is the billing configuration for one tracked client project.
	Project struct {
		ID              int64
		ProjectID       string // external (Clockify) identifier
		Name            string
		Client          string
		DealValue       *float64
		BudgetHours     *float64
		HourlyRate      *float64
		OnsiteRate      *float64 // falls back to HourlyRate when nil
		BonusRate       float64  // fraction in [0,1]
		Status          ProjectStatus
		ProjectManager  string
		CustomerContact string
		StartDate       *time.Time
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}

	// TimeEntry is one unit of logged work, owned by exactly one project.
	TimeEntry struct {
		ID            int64
		ProjectID     int64 // database id of the owning project
		Date          time.Time
		Duration      float64 // decimal hours
		Employee      string
		Description   string
		StartTime     string // "HH:MM", empty when absent
		EndTime       string
		Month         string // "YYYY-MM", derived from Date
		IsOnsite      bool
		ImportBatchID int64
	}

	// ImportBatch records one CSV upload event.
	ImportBatch struct {
		ID         int64
		Filename   string
		ImportedAt time.Time
		RowCount   int
	}

	// ReportNote is a free-text note for customer reports, keyed by
	// project and month.
	ReportNote struct {
		ID        int64
		ProjectID int64
		Month     string
		Note      string
	}

	// HoursSplit is a remote/onsite pair of summed hours.
	HoursSplit struct {
		Remote float64
		Onsite float64
	}
)

var (
	ErrInvalidStatus    = errors.New("invalid project status")
	ErrInvalidBonusRate = errors.New("bonus rate must be between 0 and 1")
	ErrEmptyName        = errors.New("empty project name")
	ErrEmptyProjectID   = errors.New("empty project id")
)

// Total returns remote plus onsite hours.
func (h HoursSplit) Total() float64 {
	return h.Remote + h.Onsite
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.ProjectID) == "" {
		return ErrEmptyProjectID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.BonusRate < 0 || p.BonusRate > 1 {
		return ErrInvalidBonusRate
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// MonthKey formats a date as the YYYY-MM grouping key used by reports.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
