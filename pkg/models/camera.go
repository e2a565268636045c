package models

// CameraInfoResponse represents the outer wrapper of GET /network/{id}/cameras.
// The server keys the list as "devicestatus".
type CameraInfoResponse struct {
	DeviceStatus []CameraConfig `json:"devicestatus"`
}

// CameraConfig is one camera's status record as reported by the cloud.
type CameraConfig struct {
	CameraID       int     `json:"camera_id"`
	Name           string  `json:"name"`
	Armed          bool    `json:"armed"`
	Thumbnail      string  `json:"thumbnail"`
	BatteryVoltage int     `json:"battery_voltage"`
	Battery        int     `json:"battery"`
	Temperature    float64 `json:"temp"`
	WifiStrength   int     `json:"wifi_strength"`
	LFRStrength    int     `json:"lfr_strength"`
	UpdatedAt      string  `json:"updated_at"`
}
