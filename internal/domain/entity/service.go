package entity

import (
	"time"

	"github.com/intersul/copimanager/internal/domain/workflow"
)

// Service is one work order against a client's machine. It exclusively
// owns its Maintenance detail and its Steps; deleting a service cascades
// to both.
type Service struct {
	ID       int64                `json:"id"`
	Type     workflow.ServiceType `json:"type"`
	ClientID int64                `json:"client_id"`
	// MachineID references the client-owned machine being worked on.
	MachineID int64 `json:"machine_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Loaded relations (nil unless the operation hydrates them)
	Client      *Client            `json:"client,omitempty"`
	Machine     *ClientCopyMachine `json:"machine,omitempty"`
	Maintenance *Maintenance       `json:"maintenance,omitempty"`
	Steps       []*ServiceStep     `json:"steps,omitempty"`
}

// Maintenance is the detail record tied 1:1 to a Service of kind
// MAINTENANCE. It is created together with its service, atomically,
// never independently.
type Maintenance struct {
	ID                 int64                    `json:"id"`
	ServiceID          int64                    `json:"service_id"`
	Type               workflow.MaintenanceType `json:"type"`
	ProblemDescription string                   `json:"problem_description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceStep is one ordered, independently trackable unit of work
// within a service's workflow. Steps are generated in bulk from the
// step template at service creation; afterwards only status, assignee
// and notes change. Position is 1-based and dense within a service.
type ServiceStep struct {
	ID                    int64                `json:"id"`
	ServiceID             int64                `json:"service_id"`
	ServiceType           workflow.ServiceType `json:"service_type"`
	Position              int                  `json:"order"`
	Description           string               `json:"description"`
	Status                workflow.StepStatus  `json:"status"`
	ResponsibleEmployeeID *int64               `json:"responsible_employee_id,omitempty"`
	CompletedDate         *time.Time           `json:"completed_date,omitempty"`
	Notes                 string               `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Loaded relations (nil unless the operation hydrates them)
	ResponsibleEmployee *User    `json:"responsible_employee,omitempty"`
	Service             *Service `json:"service,omitempty"`
}
