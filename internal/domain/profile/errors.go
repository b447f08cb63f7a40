package profile

import "errors"

var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrNotAnEmployee         = errors.New("profile is not an employee")
	ErrNotAFreelancer        = errors.New("profile is not a freelancer")
	ErrNoPaidLeavesRemaining = errors.New("no paid leaves remaining")
)
