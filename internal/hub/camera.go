package hub

import (
	"fmt"
	"io"

	"blink-cli/pkg/models"
)

// BlinkCamera is one camera attached to a sync module. It holds a
// non-owning back-reference to the module for shared auth and URL
// resolution, and repopulates itself from the status record handed to
// Update on every refresh pass.
type BlinkCamera struct {
	sync *SyncModule

	Name           string
	ID             int
	Armed          bool
	Thumbnail      string // fully resolved thumbnail URL
	Battery        int
	BatteryVoltage int
	Temperature    float64
	WifiStrength   int
	UpdatedAt      string

	cachedImage []byte
}

func NewCamera(s *SyncModule) *BlinkCamera {
	return &BlinkCamera{sync: s}
}

// Update populates the camera from a status record. A changed thumbnail
// address invalidates the cached snapshot image; forceCache drops it
// unconditionally so the next Snapshot refetches.
func (c *BlinkCamera) Update(cfg models.CameraConfig, forceCache bool) {
	c.Name = cfg.Name
	c.ID = cfg.CameraID
	c.Armed = cfg.Armed
	c.Battery = cfg.Battery
	c.BatteryVoltage = cfg.BatteryVoltage
	c.Temperature = cfg.Temperature
	c.WifiStrength = cfg.WifiStrength
	c.UpdatedAt = cfg.UpdatedAt

	thumbnail := ""
	if cfg.Thumbnail != "" {
		// Thumbnail addresses come back without an extension.
		thumbnail = c.sync.VideoURL(cfg.Thumbnail + ".jpg")
	}
	if forceCache || thumbnail != c.Thumbnail {
		c.Thumbnail = thumbnail
		c.cachedImage = nil
	}
}

// Snapshot returns the camera's thumbnail image, fetching it once and
// serving from cache until Update invalidates it.
func (c *BlinkCamera) Snapshot() ([]byte, error) {
	if c.cachedImage != nil {
		return c.cachedImage, nil
	}
	if c.Thumbnail == "" {
		return nil, fmt.Errorf("camera %s has no thumbnail", c.Name)
	}

	body, err := c.sync.api.StreamGet(c.Thumbnail)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	img, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	c.cachedImage = img
	return img, nil
}

// Attributes returns a snapshot of the camera's state for display.
func (c *BlinkCamera) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"name":          c.Name,
		"camera_id":     c.ID,
		"armed":         c.Armed,
		"thumbnail":     c.Thumbnail,
		"battery":       c.Battery,
		"temperature":   c.Temperature,
		"wifi_strength": c.WifiStrength,
		"updated_at":    c.UpdatedAt,
	}
}
