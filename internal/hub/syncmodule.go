// Package hub models a Blink sync module: the local gateway device that
// aggregates one or more cameras behind a single network id. The SyncModule
// polls independent cloud resources (module status, events, homescreen,
// network info, camera list, video listing) and merges them into a
// best-effort in-memory snapshot. Individual fetches may fail without
// aborting a pass; only the initial module-status fetch is fatal.
package hub

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"blink-cli/pkg/cidict"
	"blink-cli/pkg/models"
)

// onlineStatus is the fixed set of hub status strings the cloud produces.
// Anything else is a protocol surprise and surfaces as an error from Online.
var onlineStatus = map[string]bool{
	"online":  true,
	"offline": false,
}

// SyncModule is the in-memory aggregate for one physical hub. It is not
// safe for concurrent use; callers polling multiple hubs must serialize
// access per instance.
type SyncModule struct {
	api API
	log *zap.SugaredLogger

	Name      string
	NetworkID int
	SyncID    int
	Serial    string
	Status    string
	Region    string
	RegionID  string

	// Raw payloads from the last pass. Homescreen and NetworkInfo are
	// opaque passthrough; consumers pick fields out with gjson.
	Summary     *models.SyncModuleInfo
	Homescreen  json.RawMessage
	NetworkInfo json.RawMessage
	Events      []models.Event

	// Cameras is populated once by Start and updated in place afterwards.
	// Keys are camera names, matched case-insensitively.
	Cameras *cidict.Dict[*BlinkCamera]

	// Motion is fully recomputed by every CheckNewVideos pass.
	Motion     map[string]bool
	LastRecord map[string]models.MotionRecord

	// Video history accumulated by GetVideos across calls. Videos holds
	// {clip, thumb} pairs per camera, AllClips indexes clip addresses by
	// timestamp, RecordDates holds the timestamps seen by the last call.
	Videos      map[string][]models.VideoClip
	AllClips    map[string]map[string]string
	RecordDates map[string][]string
}

// New constructs a SyncModule with identity only. Region is copied from the
// owning client at construction and immutable afterwards; everything else
// is populated by Start.
func New(api API, name string, networkID int, log *zap.SugaredLogger) *SyncModule {
	regionID, region := api.RegionInfo()
	return &SyncModule{
		api:         api,
		log:         log,
		Name:        name,
		NetworkID:   networkID,
		Region:      region,
		RegionID:    regionID,
		Cameras:     cidict.New[*BlinkCamera](),
		Motion:      make(map[string]bool),
		LastRecord:  make(map[string]models.MotionRecord),
		Videos:      make(map[string][]models.VideoClip),
		AllClips:    make(map[string]map[string]string),
		RecordDates: make(map[string][]string),
	}
}

// Attributes returns a snapshot of the hub's identity for display or
// serialization.
func (s *SyncModule) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"name":       s.Name,
		"id":         s.SyncID,
		"network_id": s.NetworkID,
		"serial":     s.Serial,
		"status":     s.Status,
		"region":     s.Region,
		"region_id":  s.RegionID,
	}
}

// Online reports whether the hub is online. Status values come from a known
// fixed set; an unrecognized value is an error, never a silent default.
func (s *SyncModule) Online() (bool, error) {
	online, ok := onlineStatus[s.Status]
	if !ok {
		return false, fmt.Errorf("unrecognized sync module status %q", s.Status)
	}
	return online, nil
}

// Armed reads the armed flag out of the last network info payload.
func (s *SyncModule) Armed() (bool, error) {
	armed := gjson.GetBytes(s.NetworkInfo, "network.armed")
	if !armed.Exists() {
		return false, fmt.Errorf("network info has no armed state")
	}
	return armed.Bool(), nil
}

// Arm issues the remote arm command. The local armed state only changes on
// the next network info fetch.
func (s *SyncModule) Arm() error {
	return s.api.Arm(s.NetworkID)
}

// Disarm issues the remote disarm command.
func (s *SyncModule) Disarm() error {
	return s.api.Disarm(s.NetworkID)
}

// Start performs the first full population: module status, events,
// homescreen, network info, new-video check, then camera discovery. Only
// the module-status fetch is fatal; every other step degrades to partial
// state with a logged diagnostic. Returns false when the hub summary could
// not be retrieved, in which case the caller must not treat the hub as
// ready. Calling Start twice recreates the camera objects and is not
// supported.
func (s *SyncModule) Start() bool {
	resp, err := s.api.SyncModuleStatus(s.NetworkID)
	if err != nil || resp == nil || resp.SyncModule == nil {
		s.log.Errorw("could not retrieve sync module information",
			"network_id", s.NetworkID, "error", err)
		return false
	}

	s.Summary = resp.SyncModule
	// The server's network id is authoritative over whatever we were
	// constructed with.
	s.NetworkID = s.Summary.NetworkID

	if s.Summary.ID == nil || s.Summary.Serial == nil || s.Summary.Status == nil {
		s.log.Errorw("could not extract some sync module info",
			"network_id", s.NetworkID)
	}
	if s.Summary.ID != nil {
		s.SyncID = *s.Summary.ID
	}
	if s.Summary.Serial != nil {
		s.Serial = *s.Summary.Serial
	}
	if s.Summary.Status != nil {
		s.Status = *s.Summary.Status
	}

	s.Events = s.GetEvents()
	s.fetchHomescreen()
	s.fetchNetworkInfo()

	s.CheckNewVideos()

	for _, cfg := range s.GetCameraInfo() {
		if cfg.Name == "" {
			s.log.Debugw("skipping camera entry without name",
				"camera_id", cfg.CameraID)
			continue
		}
		camera := NewCamera(s)
		s.Cameras.Set(cfg.Name, camera)
		s.Motion[cfg.Name] = false
		camera.Update(cfg, true)
	}

	return true
}

// Refresh re-fetches events, homescreen, network info, runs the new-video
// check, then updates every already-known camera in place. Cameras are only
// ever created by Start; a camera-info entry with no matching known camera
// is skipped.
func (s *SyncModule) Refresh(forceCache bool) {
	s.Events = s.GetEvents()
	s.fetchHomescreen()
	s.fetchNetworkInfo()

	s.CheckNewVideos()

	for _, cfg := range s.GetCameraInfo() {
		camera, ok := s.Cameras.Get(cfg.Name)
		if !ok {
			s.log.Debugw("camera not known to this sync module, skipping",
				"name", cfg.Name)
			continue
		}
		camera.Update(cfg, forceCache)
	}
}

// GetEvents retrieves the event log. Returns nil when the response is
// missing or lacks the event list; callers must check for nil, not just
// empty, to tell a failed fetch from a quiet hub.
func (s *SyncModule) GetEvents() []models.Event {
	resp, err := s.api.Events(s.NetworkID)
	if err != nil || resp == nil || resp.Events == nil {
		s.log.Errorw("could not extract events",
			"network_id", s.NetworkID, "error", err)
		return nil
	}
	return resp.Events
}

// GetCameraInfo retrieves the camera status list. Returns an empty slice on
// failure so callers can iterate unconditionally.
func (s *SyncModule) GetCameraInfo() []models.CameraConfig {
	resp, err := s.api.Cameras(s.NetworkID)
	if err != nil || resp == nil || resp.DeviceStatus == nil {
		s.log.Errorw("could not extract camera info",
			"network_id", s.NetworkID, "error", err)
		return []models.CameraConfig{}
	}
	return resp.DeviceStatus
}

func (s *SyncModule) fetchHomescreen() {
	payload, err := s.api.Homescreen()
	if err != nil {
		s.log.Errorw("could not retrieve homescreen", "error", err)
		return
	}
	s.Homescreen = payload
}

func (s *SyncModule) fetchNetworkInfo() {
	payload, err := s.api.NetworkStatus(s.NetworkID)
	if err != nil {
		s.log.Errorw("could not retrieve network info",
			"network_id", s.NetworkID, "error", err)
		return
	}
	s.NetworkInfo = payload
}

// CheckNewVideos looks for clips created since the owning client's last
// refresh and recomputes the per-camera motion flags from scratch. Returns
// false when the listing could not be retrieved, leaving every motion flag
// false; that is recoverable and callers carry on.
func (s *SyncModule) CheckNewVideos() bool {
	for _, name := range s.Cameras.Keys() {
		s.Motion[name] = false
	}

	resp, err := s.api.VideosSince(s.api.LastRefreshAt(), 0)
	if err != nil || resp == nil || resp.Videos == nil {
		s.log.Warnw("could not check for motion", "error", err)
		return false
	}

	for _, entry := range resp.Videos {
		if entry.CameraName == "" || entry.Address == "" || entry.CreatedAt == "" {
			// Individual malformed entries are expected and benign.
			s.log.Debugw("video entry missing fields, skipping")
			continue
		}
		s.Motion[entry.CameraName] = true
		s.LastRecord[entry.CameraName] = models.MotionRecord{
			Clip: entry.Address,
			Time: entry.CreatedAt,
		}
	}

	return true
}

// GetVideos retrieves the historical video listing over an inclusive page
// range and merges it into the accumulated per-camera state. Paging stops
// early at the first empty page or the first page carrying a server
// message. Duplicate timestamps are suppressed per call, not across calls:
// re-listing an overlapping range appends the same clip to Videos again
// while AllClips stays keyed by timestamp. Returns the accumulated Videos
// mapping.
func (s *SyncModule) GetVideos(startPage, endPage int) map[string][]models.VideoClip {
	var pages []*models.VideoPage

	for page := startPage; page <= endPage; page++ {
		this, err := s.api.VideoPage(page)
		if err != nil || this == nil || (this.Message == "" && len(this.Entries) == 0) {
			break
		}
		if this.Message != "" {
			s.log.Warnw("could not retrieve videos", "message", this.Message)
			break
		}
		pages = append(pages, this)
	}
	s.log.Debugw("getting videos", "start_page", startPage, "end_page", endPage)

	seenDates := make(map[string][]string)
	for _, page := range pages {
		for _, raw := range page.Entries {
			var entry models.VideoEntry
			if err := json.Unmarshal(raw, &entry); err != nil {
				// A non-record entry abandons the rest of this page.
				s.log.Warnw("could not extract video information", "error", err)
				break
			}

			name := entry.CameraName
			if s.AllClips[name] == nil {
				s.AllClips[name] = make(map[string]string)
			}
			s.AllClips[name][entry.CreatedAt] = entry.Address

			if !slices.Contains(seenDates[name], entry.CreatedAt) {
				seenDates[name] = append(seenDates[name], entry.CreatedAt)
				s.Videos[name] = append(s.Videos[name], models.VideoClip{
					Clip:  entry.Address,
					Thumb: entry.Thumbnail,
				})
			}
		}
	}

	s.RecordDates = seenDates
	s.log.Debugw("retrieved records", "cameras", len(seenDates))
	return s.Videos
}

// VideoURL resolves a relative clip or thumbnail address against the
// transport's base URL.
func (s *SyncModule) VideoURL(addr string) string {
	return s.api.BaseURL() + addr
}

// SaveVideo streams the clip at addr to a file at path. Nothing is written
// when the fetch fails; the destination handle is closed on every exit path.
func (s *SyncModule) SaveVideo(addr, path string) error {
	body, err := s.api.StreamGet(s.VideoURL(addr))
	if err != nil || body == nil {
		s.log.Errorw("cannot download video", "address", addr, "error", err)
		return err
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
