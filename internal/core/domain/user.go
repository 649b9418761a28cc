package domain

import (
	"errors"
	"time"
)

// Group is one of the fixed role-directory groups. Only the four canonical
// values below exist; free-form group names never enter the core.
type Group string

const (
	GroupAdministrator          Group = "Administrator"
	GroupEmployee               Group = "Employee"
	GroupPermissionAppointments Group = "Permission:Appointments"
	GroupPermissionTreatments   Group = "Permission:Treatments"
)

// CanonicalGroups lists every group the directory manages.
var CanonicalGroups = []Group{
	GroupAdministrator,
	GroupEmployee,
	GroupPermissionAppointments,
	GroupPermissionTreatments,
}

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameTaken      = errors.New("that username is already in use")
	ErrEmailTaken         = errors.New("that email is already in use")
	ErrPasswordMismatch   = errors.New("the passwords do not match")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfDelete         = errors.New("you cannot delete your own account")
	ErrSignupFailed       = errors.New("could not create the account, please try again")
	ErrForbidden          = errors.New("access forbidden")
)

// Account is a staff login in the primary identity store.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsSuperuser  bool
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MirrorAccount is the secondary credential record created alongside an
// Account at signup. It is never used for authentication and never updated.
type MirrorAccount struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// GroupFlags is the checkbox form of a membership set.
type GroupFlags struct {
	Admin        bool
	Employee     bool
	Appointments bool
	Treatments   bool
}

// Groups expands the flags into the exact membership set to assign.
func (f GroupFlags) Groups() []Group {
	var out []Group
	if f.Admin {
		out = append(out, GroupAdministrator)
	}
	if f.Employee {
		out = append(out, GroupEmployee)
	}
	if f.Appointments {
		out = append(out, GroupPermissionAppointments)
	}
	if f.Treatments {
		out = append(out, GroupPermissionTreatments)
	}
	return out
}

// Any reports whether at least one flag is set.
func (f GroupFlags) Any() bool {
	return f.Admin || f.Employee || f.Appointments || f.Treatments
}

// FlagsFromGroups converts a membership set back to checkbox form.
func FlagsFromGroups(groups []Group) GroupFlags {
	var f GroupFlags
	for _, g := range groups {
		switch g {
		case GroupAdministrator:
			f.Admin = true
		case GroupEmployee:
			f.Employee = true
		case GroupPermissionAppointments:
			f.Appointments = true
		case GroupPermissionTreatments:
			f.Treatments = true
		}
	}
	return f
}
