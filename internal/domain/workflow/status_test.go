package workflow

import "testing"

func TestStepStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   StepStatus
		expected bool
	}{
		{"pending", StepPending, true},
		{"in progress", StepInProgress, true},
		{"completed", StepCompleted, true},
		{"cancelled", StepCancelled, true},
		{"unknown", StepStatus("DONE"), false},
		{"empty", StepStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("StepStatus.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMaintenanceType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		mt       MaintenanceType
		expected bool
	}{
		{"internal", MaintenanceInternal, true},
		{"external", MaintenanceExternal, true},
		{"unknown", MaintenanceType("ONSITE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mt.IsValid(); got != tt.expected {
				t.Errorf("MaintenanceType.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestServiceType_IsValid(t *testing.T) {
	if !ServiceMaintenance.IsValid() {
		t.Error("ServiceMaintenance should be valid")
	}
	if ServiceType("SALE").IsValid() {
		t.Error("unknown service type should not be valid")
	}
}
