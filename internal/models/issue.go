package models

// IssueType categorises the problem an electrician reports.
type IssueType string

const (
	IssueTypeAccess    IssueType = "access"
	IssueTypeMaterials IssueType = "materials"
	IssueTypeScope     IssueType = "scope"
	IssueTypeSafety    IssueType = "safety"
	IssueTypeCustomer  IssueType = "customer"
	IssueTypeEquipment IssueType = "equipment"
	IssueTypeOther     IssueType = "other"
)

func (t IssueType) Valid() bool {
	switch t {
	case IssueTypeAccess, IssueTypeMaterials, IssueTypeScope, IssueTypeSafety,
		IssueTypeCustomer, IssueTypeEquipment, IssueTypeOther:
		return true
	}
	return false
}

// RequestedAction is what the reporting electrician asks the manager to do.
type RequestedAction string

const (
	RequestedActionReschedule      RequestedAction = "reschedule"
	RequestedActionAssistance      RequestedAction = "assistance"
	RequestedActionManager         RequestedAction = "manager"
	RequestedActionCustomerContact RequestedAction = "customer_contact"
	RequestedActionMaterials       RequestedAction = "materials"
)

func (a RequestedAction) Valid() bool {
	switch a {
	case RequestedActionReschedule, RequestedActionAssistance, RequestedActionManager,
		RequestedActionCustomerContact, RequestedActionMaterials:
		return true
	}
	return false
}

// IssuePriority is the urgency of an issue.
type IssuePriority string

const (
	IssuePriorityNormal    IssuePriority = "normal"
	IssuePriorityUrgent    IssuePriority = "urgent"
	IssuePriorityEmergency IssuePriority = "emergency"
)

func (p IssuePriority) Valid() bool {
	switch p {
	case IssuePriorityNormal, IssuePriorityUrgent, IssuePriorityEmergency:
		return true
	}
	return false
}

// IssueStatus is the status of an issue: open -> in_progress -> resolved.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved:
		return true
	}
	return false
}
