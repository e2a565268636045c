package models

// SyncModuleResponse represents the outer wrapper of GET /network/{id}/syncmodules.
// A nil SyncModule means the server omitted the "syncmodule" key, which callers
// treat as a fatal bootstrap failure.
type SyncModuleResponse struct {
	SyncModule *SyncModuleInfo `json:"syncmodule"`
}

// SyncModuleInfo is the hub summary payload. ID, Serial and Status are pointers
// because the server sometimes drops them; callers log and carry on.
type SyncModuleInfo struct {
	ID        *int    `json:"id"`
	NetworkID int     `json:"network_id"`
	Serial    *string `json:"serial"`
	Status    *string `json:"status"`
	FWVersion string  `json:"fw_version,omitempty"`
	LastHB    string  `json:"last_hb,omitempty"`
}
