package payroll

import (
	"fmt"
	"time"
)

// WeeklyRestPolicy decides whether an unworked day costs nothing on its own.
// Compensatory Sunday promises are honoured under every policy.
type WeeklyRestPolicy interface {
	Name() string
	IsRestDay(day time.Time) bool
}

const (
	RestPolicyNone   = "none"
	RestPolicySunday = "sunday"
)

// NoWeeklyRest treats every day as a work day; a day off must be earned through a
// Paid Off or Off record.
type NoWeeklyRest struct{}

func (NoWeeklyRest) Name() string               { return RestPolicyNone }
func (NoWeeklyRest) IsRestDay(_ time.Time) bool { return false }

// SundayRest treats every Sunday as a rest day.
type SundayRest struct{}

func (SundayRest) Name() string                 { return RestPolicySunday }
func (SundayRest) IsRestDay(day time.Time) bool { return day.Weekday() == time.Sunday }

// ParseWeeklyRestPolicy returns the policy with the given name.
func ParseWeeklyRestPolicy(name string) (WeeklyRestPolicy, error) {
	switch name {
	case RestPolicyNone, "":
		return NoWeeklyRest{}, nil
	case RestPolicySunday:
		return SundayRest{}, nil
	}
	return nil, fmt.Errorf("unknown weekly rest policy %q", name)
}
