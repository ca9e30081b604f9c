package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings is the singleton configuration of the boarding facility.
type Settings struct {
	ID        uuid.UUID
	Theme     string
	DailyFee  *decimal.Decimal
	Capacity  *int
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy *uuid.UUID
	UpdatedBy *uuid.UUID
}

// SettingsInput holds a partial update of the settings. Nil fields are left
// unchanged.
type SettingsInput struct {
	Theme    *string
	DailyFee *decimal.Decimal
	Capacity *int
}

// Validate checks all present fields and collects all errors.
func (i SettingsInput) Validate() error {
	var errs fieldErrors
	if i.Theme != nil && len(*i.Theme) > 255 {
		errs.add("theme", "max 255 characters")
	}
	if i.DailyFee != nil && i.DailyFee.IsNegative() {
		errs.add("dailyFee", "must not be negative")
	}
	if i.Capacity != nil && *i.Capacity < 0 {
		errs.add("capacity", "must not be negative")
	}
	return errs.err()
}

// AuditValues returns the submitted fields.
func (i SettingsInput) AuditValues() map[string]any {
	v := auditValues{}
	v.str("theme", i.Theme)
	v.decimal("dailyFee", i.DailyFee)
	if i.Capacity != nil {
		v["capacity"] = *i.Capacity
	}
	return v
}
