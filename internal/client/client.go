package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultBaseURL is the region-less endpoint used before login tells us
// which regional tier the account lives on.
const DefaultBaseURL = "https://rest-prod.immedia-semi.com"

// authHeader carries the session token on every request after login.
const authHeader = "TOKEN_AUTH"

// Blink is the cloud transport and session handle shared by every sync
// module and camera. It owns auth, region and the last-refresh timestamp
// the new-video check filters against.
type Blink struct {
	HTTP   *resty.Client
	Config Config

	regionID    string
	regionName  string
	lastRefresh time.Time
	log         *zap.SugaredLogger
}

type Config struct {
	Email    string
	Password string
	Token    string // saved session token, skips login when set
	Region   string // saved region id, e.g. "prde"
}

// LoginPayload matches the JSON body required by POST /login.
type LoginPayload struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ClientSpecifier string `json:"client_specifier"`
}

// LoginResponse captures the session token and the account's regional tier.
// The region object is keyed by region id with the display name as value.
type LoginResponse struct {
	AuthToken struct {
		AuthToken string `json:"authtoken"`
	} `json:"authtoken"`
	Region map[string]string `json:"region"`
}

func New(cfg Config, log *zap.SugaredLogger) *Blink {
	r := resty.New()
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	b := &Blink{
		HTTP:     r,
		Config:   cfg,
		regionID: cfg.Region,
		log:      log,
	}

	if cfg.Region != "" {
		r.SetBaseURL(regionURL(cfg.Region))
	} else {
		r.SetBaseURL(DefaultBaseURL)
	}
	if cfg.Token != "" {
		r.SetHeader(authHeader, cfg.Token)
	}
	return b
}

func regionURL(regionID string) string {
	return fmt.Sprintf("https://rest-%s.immedia-semi.com", regionID)
}

// Login authenticates with the cloud, pins the client to the account's
// regional endpoint and injects the session token into all future requests.
// Returns the token and region id so they can be saved to config.
func (b *Blink) Login() (string, string, error) {
	payload := LoginPayload{
		Email:           b.Config.Email,
		Password:        b.Config.Password,
		ClientSpecifier: "blink-cli",
	}

	resp, err := b.HTTP.R().
		SetBody(payload).
		SetResult(&LoginResponse{}).
		Post("/login")

	if err != nil {
		return "", "", err
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("login failed: %s", resp.String())
	}

	loginResult, ok := resp.Result().(*LoginResponse)
	if !ok {
		return "", "", errors.New("failed to parse login response")
	}

	token := loginResult.AuthToken.AuthToken
	if token == "" {
		return "", "", errors.New("login successful but no auth token returned")
	}

	for id, name := range loginResult.Region {
		b.regionID = id
		b.regionName = name
	}
	if b.regionID != "" {
		b.HTTP.SetBaseURL(regionURL(b.regionID))
	}

	b.HTTP.SetHeader(authHeader, token)
	b.log.Debugw("logged in", "region", b.regionID)

	return token, b.regionID, nil
}

// BaseURL returns the regional endpoint video/thumbnail addresses are
// resolved against.
func (b *Blink) BaseURL() string {
	return b.HTTP.BaseURL
}

// RegionInfo returns the region id and display name for the session.
func (b *Blink) RegionInfo() (string, string) {
	return b.regionID, b.regionName
}

// LastRefreshAt returns the timestamp of the last completed poll cycle.
func (b *Blink) LastRefreshAt() time.Time {
	return b.lastRefresh
}

// SetLastRefresh records a completed poll cycle. Callers set this after a
// successful refresh so the next new-video check only sees newer clips.
func (b *Blink) SetLastRefresh(t time.Time) {
	b.lastRefresh = t
}
