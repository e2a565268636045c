package client

import (
	"fmt"

	"blink-cli/pkg/models"
)

// Cameras fetches the camera status list for a network.
func (b *Blink) Cameras(networkID int) (*models.CameraInfoResponse, error) {
	var respData models.CameraInfoResponse

	resp, err := b.HTTP.R().
		SetResult(&respData).
		Get(fmt.Sprintf("/network/%d/cameras", networkID))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get cameras: %s", resp.String())
	}
	return &respData, nil
}
