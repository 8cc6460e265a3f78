// Package workflow holds the domain vocabulary of the service workflow:
// the service/maintenance kind enums, the step status set and the step
// templates seeded at service creation.
package workflow

// ServiceType identifies the kind of work order.
type ServiceType string

const (
	ServiceMaintenance ServiceType = "MAINTENANCE"
)

var validServiceTypes = map[ServiceType]bool{
	ServiceMaintenance: true,
}

// IsValid returns true if the service type is a known kind.
func (t ServiceType) IsValid() bool {
	return validServiceTypes[t]
}

// String returns the string representation of the service type.
func (t ServiceType) String() string {
	return string(t)
}

// MaintenanceType distinguishes a repair done in the workshop from one
// done at the customer site.
type MaintenanceType string

const (
	MaintenanceInternal MaintenanceType = "INTERNAL"
	MaintenanceExternal MaintenanceType = "EXTERNAL"
)

var validMaintenanceTypes = map[MaintenanceType]bool{
	MaintenanceInternal: true,
	MaintenanceExternal: true,
}

// IsValid returns true if the maintenance type is a known kind.
func (t MaintenanceType) IsValid() bool {
	return validMaintenanceTypes[t]
}

// String returns the string representation of the maintenance type.
func (t MaintenanceType) String() string {
	return string(t)
}

// StepStatus is the status of a single workflow step.
//
// Transitions are deliberately unrestricted: an operator may move a step
// from any status to any other, including reopening a COMPLETED step
// (which erases its completion timestamp). Correction of mistakes wins
// over strictness here.
type StepStatus string

const (
	StepPending    StepStatus = "PENDING"
	StepInProgress StepStatus = "IN_PROGRESS"
	StepCompleted  StepStatus = "COMPLETED"
	StepCancelled  StepStatus = "CANCELLED"
)

var validStepStatuses = map[StepStatus]bool{
	StepPending:    true,
	StepInProgress: true,
	StepCompleted:  true,
	StepCancelled:  true,
}

// IsValid returns true if the status is a member of the step status set.
func (s StepStatus) IsValid() bool {
	return validStepStatuses[s]
}

// String returns the string representation of the status.
func (s StepStatus) String() string {
	return string(s)
}
