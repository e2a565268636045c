package hub

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blink-cli/pkg/models"
)

// stubAPI is a canned-response transport for exercising the sync module
// without a network.
type stubAPI struct {
	status     *models.SyncModuleResponse
	statusErr  error
	events     *models.EventsResponse
	eventsErr  error
	homescreen json.RawMessage
	network    json.RawMessage
	cameras    *models.CameraInfoResponse
	camerasErr error
	videoList  *models.VideoListResponse
	videoErr   error
	pages      map[int]*models.VideoPage

	pageCalls []int
	armCalls  []int
	disarms   []int

	streamBody string
	streamErr  error
}

func (s *stubAPI) SyncModuleStatus(networkID int) (*models.SyncModuleResponse, error) {
	return s.status, s.statusErr
}

func (s *stubAPI) Events(networkID int) (*models.EventsResponse, error) {
	return s.events, s.eventsErr
}

func (s *stubAPI) Homescreen() (json.RawMessage, error) {
	return s.homescreen, nil
}

func (s *stubAPI) NetworkStatus(networkID int) (json.RawMessage, error) {
	return s.network, nil
}

func (s *stubAPI) Cameras(networkID int) (*models.CameraInfoResponse, error) {
	return s.cameras, s.camerasErr
}

func (s *stubAPI) VideosSince(since time.Time, page int) (*models.VideoListResponse, error) {
	return s.videoList, s.videoErr
}

func (s *stubAPI) VideoPage(page int) (*models.VideoPage, error) {
	s.pageCalls = append(s.pageCalls, page)
	return s.pages[page], nil
}

func (s *stubAPI) Arm(networkID int) error {
	s.armCalls = append(s.armCalls, networkID)
	return nil
}

func (s *stubAPI) Disarm(networkID int) error {
	s.disarms = append(s.disarms, networkID)
	return nil
}

func (s *stubAPI) StreamGet(url string) (io.ReadCloser, error) {
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	return io.NopCloser(strings.NewReader(s.streamBody)), nil
}

func (s *stubAPI) BaseURL() string              { return "http://base" }
func (s *stubAPI) RegionInfo() (string, string) { return "prde", "Europe" }
func (s *stubAPI) LastRefreshAt() time.Time     { return time.Time{} }

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func goodStatus() *models.SyncModuleResponse {
	return &models.SyncModuleResponse{
		SyncModule: &models.SyncModuleInfo{
			ID:        intPtr(42),
			NetworkID: 5678,
			Serial:    strPtr("SM00001"),
			Status:    strPtr("online"),
		},
	}
}

func cameraList(names ...string) *models.CameraInfoResponse {
	resp := &models.CameraInfoResponse{DeviceStatus: []models.CameraConfig{}}
	for i, name := range names {
		resp.DeviceStatus = append(resp.DeviceStatus, models.CameraConfig{
			CameraID:  i + 1,
			Name:      name,
			Thumbnail: "/thumb/" + name,
		})
	}
	return resp
}

func newTestModule(api API) *SyncModule {
	return New(api, "Home", 1234, zap.NewNop().Sugar())
}

func entry(camera, address, created string) json.RawMessage {
	raw, _ := json.Marshal(models.VideoEntry{
		CameraName: camera,
		Address:    address,
		Thumbnail:  address + "_thumb",
		CreatedAt:  created,
	})
	return raw
}

func TestStartFailsWithoutSyncModuleKey(t *testing.T) {
	api := &stubAPI{status: &models.SyncModuleResponse{}}
	sm := newTestModule(api)
	sm.SyncID = 99
	sm.Serial = "OLD"
	sm.Status = "offline"

	require.False(t, sm.Start())

	// Prior values survive a failed bootstrap.
	assert.Equal(t, 99, sm.SyncID)
	assert.Equal(t, "OLD", sm.Serial)
	assert.Equal(t, "offline", sm.Status)
}

func TestStartFailsOnFetchError(t *testing.T) {
	api := &stubAPI{statusErr: errors.New("boom")}
	sm := newTestModule(api)

	assert.False(t, sm.Start())
}

func TestStartPopulatesState(t *testing.T) {
	api := &stubAPI{
		status:    goodStatus(),
		events:    &models.EventsResponse{Events: []models.Event{{ID: 1, Type: "motion"}}},
		cameras:   cameraList("Front Door", "Garage", "Backyard"),
		videoList: &models.VideoListResponse{Videos: []models.VideoEntry{}},
		network:   json.RawMessage(`{"network":{"armed":true}}`),
	}
	sm := newTestModule(api)

	require.True(t, sm.Start())

	// Server-side network id is authoritative.
	assert.Equal(t, 5678, sm.NetworkID)
	assert.Equal(t, 42, sm.SyncID)
	assert.Equal(t, "SM00001", sm.Serial)
	assert.Equal(t, "online", sm.Status)
	assert.Len(t, sm.Events, 1)

	require.Equal(t, 3, sm.Cameras.Len())
	for _, name := range []string{"Front Door", "Garage", "Backyard"} {
		cam, ok := sm.Cameras.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, name, cam.Name)
		assert.Equal(t, "http://base/thumb/"+name+".jpg", cam.Thumbnail)
		assert.False(t, sm.Motion[name])
	}
}

func TestStartToleratesPartialSummary(t *testing.T) {
	api := &stubAPI{
		status: &models.SyncModuleResponse{
			SyncModule: &models.SyncModuleInfo{NetworkID: 5678, Status: strPtr("offline")},
		},
		cameras: cameraList(),
	}
	sm := newTestModule(api)

	require.True(t, sm.Start())
	assert.Equal(t, 0, sm.SyncID)
	assert.Equal(t, "", sm.Serial)
	assert.Equal(t, "offline", sm.Status)
}

func TestStartSkipsNamelessCameraEntry(t *testing.T) {
	cameras := cameraList("Front Door")
	cameras.DeviceStatus = append(cameras.DeviceStatus, models.CameraConfig{CameraID: 9})

	api := &stubAPI{status: goodStatus(), cameras: cameras}
	sm := newTestModule(api)

	require.True(t, sm.Start())
	assert.Equal(t, 1, sm.Cameras.Len())
}

func TestOnline(t *testing.T) {
	sm := newTestModule(&stubAPI{})

	sm.Status = "online"
	online, err := sm.Online()
	require.NoError(t, err)
	assert.True(t, online)

	sm.Status = "offline"
	online, err = sm.Online()
	require.NoError(t, err)
	assert.False(t, online)

	sm.Status = "rebooting"
	_, err = sm.Online()
	assert.Error(t, err)
}

func TestAttributes(t *testing.T) {
	sm := newTestModule(&stubAPI{})
	attrs := sm.Attributes()

	assert.Equal(t, "Home", attrs["name"])
	assert.Equal(t, 1234, attrs["network_id"])
	assert.Equal(t, "prde", attrs["region_id"])
	assert.Equal(t, "Europe", attrs["region"])
}

func TestArmedFromNetworkInfo(t *testing.T) {
	sm := newTestModule(&stubAPI{})

	_, err := sm.Armed()
	assert.Error(t, err, "no network info yet")

	sm.NetworkInfo = json.RawMessage(`{"network":{"armed":true}}`)
	armed, err := sm.Armed()
	require.NoError(t, err)
	assert.True(t, armed)

	sm.NetworkInfo = json.RawMessage(`{"network":{}}`)
	_, err = sm.Armed()
	assert.Error(t, err)
}

func TestArmDisarmIssueRemoteCommands(t *testing.T) {
	api := &stubAPI{}
	sm := newTestModule(api)

	require.NoError(t, sm.Arm())
	require.NoError(t, sm.Disarm())
	assert.Equal(t, []int{1234}, api.armCalls)
	assert.Equal(t, []int{1234}, api.disarms)
}

func TestGetEventsSentinel(t *testing.T) {
	api := &stubAPI{eventsErr: errors.New("timeout")}
	sm := newTestModule(api)
	assert.Nil(t, sm.GetEvents())

	// A present-but-empty list is not a failure.
	api.eventsErr = nil
	api.events = &models.EventsResponse{Events: []models.Event{}}
	events := sm.GetEvents()
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestGetCameraInfoSafeDefault(t *testing.T) {
	api := &stubAPI{camerasErr: errors.New("timeout")}
	sm := newTestModule(api)

	info := sm.GetCameraInfo()
	assert.NotNil(t, info)
	assert.Empty(t, info)
}

func TestCheckNewVideosMissingVideosKey(t *testing.T) {
	api := &stubAPI{
		status:  goodStatus(),
		cameras: cameraList("Cam1", "Cam2"),
	}
	sm := newTestModule(api)
	require.True(t, sm.Start())

	// Seed stale motion, then fail the listing.
	sm.Motion["Cam1"] = true
	api.videoList = &models.VideoListResponse{}

	assert.False(t, sm.CheckNewVideos())
	assert.False(t, sm.Motion["Cam1"])
	assert.False(t, sm.Motion["Cam2"])
}

func TestCheckNewVideosSetsMotion(t *testing.T) {
	api := &stubAPI{
		status:  goodStatus(),
		cameras: cameraList("Cam1", "Cam2"),
	}
	sm := newTestModule(api)
	require.True(t, sm.Start())

	api.videoList = &models.VideoListResponse{Videos: []models.VideoEntry{
		{CameraName: "Cam1", Address: "/a1", CreatedAt: "t1"},
		{CameraName: "Cam2", CreatedAt: "t2"}, // missing address, skipped
	}}

	require.True(t, sm.CheckNewVideos())
	assert.True(t, sm.Motion["Cam1"])
	assert.False(t, sm.Motion["Cam2"])
	assert.Equal(t, models.MotionRecord{Clip: "/a1", Time: "t1"}, sm.LastRecord["Cam1"])
	assert.NotContains(t, sm.LastRecord, "Cam2")
}

func TestGetVideosAccumulatesAcrossCalls(t *testing.T) {
	api := &stubAPI{
		pages: map[int]*models.VideoPage{
			0: {Entries: []json.RawMessage{entry("Cam1", "/a1", "t1")}},
		},
	}
	sm := newTestModule(api)

	videos := sm.GetVideos(0, 0)
	require.Len(t, videos["Cam1"], 1)
	assert.Equal(t, "/a1", sm.AllClips["Cam1"]["t1"])
	assert.Equal(t, []string{"t1"}, sm.RecordDates["Cam1"])

	// Same page again: the timestamp index is stable, but dedup is
	// call-local, so the clip list grows.
	videos = sm.GetVideos(0, 0)
	assert.Equal(t, "/a1", sm.AllClips["Cam1"]["t1"])
	assert.Len(t, videos["Cam1"], 2)
}

func TestGetVideosDedupesWithinCall(t *testing.T) {
	api := &stubAPI{
		pages: map[int]*models.VideoPage{
			0: {Entries: []json.RawMessage{
				entry("Cam1", "/a1", "t1"),
				entry("Cam1", "/a1-dup", "t1"),
				entry("Cam1", "/a2", "t2"),
			}},
		},
	}
	sm := newTestModule(api)

	videos := sm.GetVideos(0, 0)
	require.Len(t, videos["Cam1"], 2)
	// Duplicate timestamp overwrites the index but appends no clip.
	assert.Equal(t, "/a1-dup", sm.AllClips["Cam1"]["t1"])
}

func TestGetVideosMessageStopsPaging(t *testing.T) {
	api := &stubAPI{
		pages: map[int]*models.VideoPage{
			0: {Entries: []json.RawMessage{entry("Cam1", "/a1", "t1")}},
			1: {Message: "rate limited"},
			2: {Entries: []json.RawMessage{entry("Cam1", "/a2", "t2")}},
		},
	}
	sm := newTestModule(api)

	videos := sm.GetVideos(0, 2)

	// Page 2 was never fetched, entries from page 0 are kept.
	assert.Equal(t, []int{0, 1}, api.pageCalls)
	require.Len(t, videos["Cam1"], 1)
	assert.Equal(t, "/a1", videos["Cam1"][0].Clip)
}

func TestGetVideosStopsAtEmptyPage(t *testing.T) {
	api := &stubAPI{
		pages: map[int]*models.VideoPage{
			0: {Entries: []json.RawMessage{entry("Cam1", "/a1", "t1")}},
			1: {},
			2: {Entries: []json.RawMessage{entry("Cam1", "/a2", "t2")}},
		},
	}
	sm := newTestModule(api)

	videos := sm.GetVideos(0, 2)
	assert.Equal(t, []int{0, 1}, api.pageCalls)
	assert.Len(t, videos["Cam1"], 1)
}

func TestGetVideosMalformedEntryAbandonsPage(t *testing.T) {
	api := &stubAPI{
		pages: map[int]*models.VideoPage{
			0: {Entries: []json.RawMessage{
				entry("Cam1", "/a1", "t1"),
				json.RawMessage(`"not a record"`),
				entry("Cam1", "/a2", "t2"),
			}},
			1: {Entries: []json.RawMessage{entry("Cam2", "/b1", "t3")}},
		},
	}
	sm := newTestModule(api)

	videos := sm.GetVideos(0, 1)

	// The bad entry abandons the rest of page 0 but not page 1.
	require.Len(t, videos["Cam1"], 1)
	require.Len(t, videos["Cam2"], 1)
}

func TestCameraLookupIsCaseInsensitive(t *testing.T) {
	api := &stubAPI{status: goodStatus(), cameras: cameraList("Cam1")}
	sm := newTestModule(api)
	require.True(t, sm.Start())

	upper, ok := sm.Cameras.Get("Cam1")
	require.True(t, ok)
	lower, ok := sm.Cameras.Get("cam1")
	require.True(t, ok)
	assert.Same(t, upper, lower)
}

func TestRefreshUpdatesKnownCamerasOnly(t *testing.T) {
	api := &stubAPI{status: goodStatus(), cameras: cameraList("Cam1")}
	sm := newTestModule(api)
	require.True(t, sm.Start())

	// A camera that appears after bootstrap is not adopted by Refresh.
	api.cameras = cameraList("Cam1", "Cam2")
	api.cameras.DeviceStatus[0].Battery = 77
	sm.Refresh(false)

	assert.Equal(t, 1, sm.Cameras.Len())
	cam, _ := sm.Cameras.Get("Cam1")
	assert.Equal(t, 77, cam.Battery)
}

func TestVideoURL(t *testing.T) {
	sm := newTestModule(&stubAPI{})
	assert.Equal(t, "http://base/clip/a.mp4", sm.VideoURL("/clip/a.mp4"))
}

func TestSaveVideo(t *testing.T) {
	api := &stubAPI{streamBody: "clip-bytes"}
	sm := newTestModule(api)

	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, sm.SaveVideo("/clip/a.mp4", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "clip-bytes", string(data))
}

func TestSaveVideoFetchFailureWritesNothing(t *testing.T) {
	api := &stubAPI{streamErr: errors.New("404")}
	sm := newTestModule(api)

	path := filepath.Join(t.TempDir(), "clip.mp4")
	assert.Error(t, sm.SaveVideo("/clip/a.mp4", path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
