package entity

// LicenseActivation is the backend reply to a distributor key activation.
type LicenseActivation struct {
	Success bool        `json:"success"`
	Status  string      `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
