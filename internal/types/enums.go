package types

// Actor roles, highest privilege first
const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleAdmin      = "ADMIN"
	RoleUser       = "USER"
)

// Actor account status
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Lead status values
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusClosed    = "closed"
)

// Suggested calling-data status labels. The status column itself is free
// text, so these feed UI dropdowns rather than validation.
const (
	CallStatusInterested    = "interested"
	CallStatusNotInterested = "not_interested"
	CallStatusCallBack      = "call_back"
	CallStatusConverted     = "converted"
	CallStatusWrongNumber   = "wrong_number"
)

var ValidRoles = []string{RoleSuperAdmin, RoleAdmin, RoleUser}

var ValidAccountStatuses = []string{StatusActive, StatusInactive}

var ValidLeadStatuses = []string{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
	LeadStatusConverted, LeadStatusClosed,
}

func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsValidAccountStatus(status string) bool {
	for _, s := range ValidAccountStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidLeadStatus(status string) bool {
	for _, s := range ValidLeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}
