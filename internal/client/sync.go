package client

import (
	"encoding/json"
	"fmt"

	"blink-cli/pkg/models"
)

// SyncModuleStatus fetches the hub summary for a network.
func (b *Blink) SyncModuleStatus(networkID int) (*models.SyncModuleResponse, error) {
	var respData models.SyncModuleResponse

	resp, err := b.HTTP.R().
		SetResult(&respData).
		Get(fmt.Sprintf("/network/%d/syncmodules", networkID))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get sync module status: %s", resp.String())
	}
	return &respData, nil
}

// Events fetches the event log for a network.
func (b *Blink) Events(networkID int) (*models.EventsResponse, error) {
	var respData models.EventsResponse

	resp, err := b.HTTP.R().
		SetResult(&respData).
		Get(fmt.Sprintf("/events/network/%d", networkID))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get events: %s", resp.String())
	}
	return &respData, nil
}

// Homescreen fetches the account homescreen payload. The shape varies by
// firmware and app version, so it is passed through raw.
func (b *Blink) Homescreen() (json.RawMessage, error) {
	resp, err := b.HTTP.R().Get("/homescreen")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get homescreen: %s", resp.String())
	}
	return json.RawMessage(resp.Body()), nil
}

// NetworkStatus fetches the network payload, raw. Consumers pick out the
// fields they need (e.g. network.armed).
func (b *Blink) NetworkStatus(networkID int) (json.RawMessage, error) {
	resp, err := b.HTTP.R().Get(fmt.Sprintf("/network/%d", networkID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get network status: %s", resp.String())
	}
	return json.RawMessage(resp.Body()), nil
}

// Arm sends the remote arm command for a network. Fire-and-forget: the
// armed state is only observed on the next network status fetch.
func (b *Blink) Arm(networkID int) error {
	resp, err := b.HTTP.R().Post(fmt.Sprintf("/network/%d/arm", networkID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("failed to arm network %d: %s", networkID, resp.String())
	}
	return nil
}

// Disarm sends the remote disarm command for a network.
func (b *Blink) Disarm(networkID int) error {
	resp, err := b.HTTP.R().Post(fmt.Sprintf("/network/%d/disarm", networkID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("failed to disarm network %d: %s", networkID, resp.String())
	}
	return nil
}
