package hub

import (
	"encoding/json"
	"io"
	"time"

	"blink-cli/pkg/models"
)

// API is the cloud transport contract a SyncModule polls against.
// *client.Blink is the production implementation; tests substitute a stub.
type API interface {
	SyncModuleStatus(networkID int) (*models.SyncModuleResponse, error)
	Events(networkID int) (*models.EventsResponse, error)
	Homescreen() (json.RawMessage, error)
	NetworkStatus(networkID int) (json.RawMessage, error)
	Cameras(networkID int) (*models.CameraInfoResponse, error)
	VideosSince(since time.Time, page int) (*models.VideoListResponse, error)
	VideoPage(page int) (*models.VideoPage, error)
	Arm(networkID int) error
	Disarm(networkID int) error
	StreamGet(url string) (io.ReadCloser, error)

	BaseURL() string
	RegionInfo() (id, name string)
	LastRefreshAt() time.Time
}
