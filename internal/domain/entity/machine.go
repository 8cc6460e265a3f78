package entity

import "time"

// CopyMachineCatalog is a machine model offered for sale or rental.
type CopyMachineCatalog struct {
	ID           int64    `json:"id"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Quantity     *int     `json:"quantity,omitempty"`
	File         string   `json:"file,omitempty"` // stored datasheet path

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientCopyMachine is a concrete machine sitting at a client's site.
// It either references a catalog model (purchased/rented from us) or
// carries its own external_* identity for machines of outside origin.
type ClientCopyMachine struct {
	ID                   int64  `json:"id"`
	SerialNumber         string `json:"serial_number"`
	ClientID             int64  `json:"client_id"`
	CatalogMachineID     *int64 `json:"catalog_machine_id,omitempty"`
	ExternalModel        string `json:"external_model,omitempty"`
	ExternalManufacturer string `json:"external_manufacturer,omitempty"`
	ExternalDescription  string `json:"external_description,omitempty"`
	AcquisitionType      string `json:"acquisition_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Loaded relations (nil unless the operation hydrates them)
	Client         *Client             `json:"client,omitempty"`
	CatalogMachine *CopyMachineCatalog `json:"catalog_machine,omitempty"`
}
