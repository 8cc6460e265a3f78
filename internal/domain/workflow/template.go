package workflow

// StepTemplate returns the ordered step descriptions seeded when a
// maintenance service is created. The template is fixed per maintenance
// kind; the caller persists one step per entry with its 1-based position.
func StepTemplate(t MaintenanceType) []string {
	if t == MaintenanceInternal {
		return []string{
			"On the Way",
			"Maintenance",
			"Completion/Testing",
		}
	}
	// External (customer-site) jobs go through evaluation and billing.
	return []string{
		"Technical Evaluation",
		"Budget",
		"Budget Approval",
		"On the Way",
		"Maintenance",
		"Billing",
	}
}
