package entity

// Role constants for User
const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleTechnician = "TECHNICIAN"
)

// ValidRole reports whether role is a known user role.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleTechnician:
		return true
	}
	return false
}

// Acquisition type constants for ClientCopyMachine.
// EXTERNAL marks a machine the client brought in that was never sold or
// rented by us, identified only by its free-text external_* fields.
const (
	AcquisitionPurchase = "PURCHASE"
	AcquisitionRental   = "RENTAL"
	AcquisitionExternal = "EXTERNAL"
)

// ValidAcquisitionType reports whether t is a known acquisition type.
func ValidAcquisitionType(t string) bool {
	switch t {
	case AcquisitionPurchase, AcquisitionRental, AcquisitionExternal:
		return true
	}
	return false
}

// Category constants for Supply
const (
	SupplyCategoryToner = "TONER"
	SupplyCategoryPaper = "PAPER"
	SupplyCategoryParts = "PARTS"
	SupplyCategoryOther = "OTHER"
)

// ValidSupplyCategory reports whether c is a known supply category.
func ValidSupplyCategory(c string) bool {
	switch c {
	case SupplyCategoryToner, SupplyCategoryPaper, SupplyCategoryParts, SupplyCategoryOther:
		return true
	}
	return false
}
