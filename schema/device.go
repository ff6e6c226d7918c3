package schema

// Placeholder values used until the visitor probe resolves.
const (
	UnknownValue = "unknown"
	DefaultUser  = "visitor"
)

// DeviceInfo is the browser and OS classification of a visitor.
type DeviceInfo struct {
	Browser   string `json:"browser"`
	Device    string `json:"device"`
	UserAgent string `json:"user_agent"`
}

// UnknownDevice returns the placeholder classification.
func UnknownDevice() DeviceInfo {
	return DeviceInfo{Browser: UnknownValue, Device: UnknownValue, UserAgent: UnknownValue}
}
