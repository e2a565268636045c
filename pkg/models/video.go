package models

import (
	"bytes"
	"encoding/json"
)

// VideoListResponse wraps the time-filtered listing endpoint
// (GET /api/v2/videos/changed). A nil Videos slice means the "videos" key was
// absent from the response, which the motion check treats as a failed fetch.
type VideoListResponse struct {
	Videos []VideoEntry `json:"videos"`
}

// VideoEntry is one clip record. The listing endpoints are known to drop
// fields on individual entries, so consumers validate before use.
type VideoEntry struct {
	CameraName string `json:"camera_name"`
	Address    string `json:"address"`
	Thumbnail  string `json:"thumbnail"`
	CreatedAt  string `json:"created_at"`
}

// VideoPage is one page of the paged listing endpoint
// (GET /api/v2/videos/page/{n}). The server answers with either a bare JSON
// array of entries or, on error, an object carrying a "message" field.
// Entries stay raw so that a malformed entry can be skipped without
// poisoning its siblings.
type VideoPage struct {
	Message string
	Entries []json.RawMessage
}

// UnmarshalJSON dispatches on the top-level shape: array of entries, or an
// error/notice envelope.
func (p *VideoPage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &p.Entries)
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	p.Message = envelope.Message
	return nil
}

// VideoClip is the {clip, thumb} pair accumulated per camera by the
// historical listing.
type VideoClip struct {
	Clip  string `json:"clip"`
	Thumb string `json:"thumb"`
}

// MotionRecord is the most recent detected motion clip for one camera.
type MotionRecord struct {
	Clip string `json:"clip"`
	Time string `json:"time"`
}
