package client

import (
	"fmt"
	"strconv"
	"time"

	"blink-cli/pkg/models"
)

// Timestamp format the video listing endpoints accept for the since filter.
const videoTimeFormat = "2006-01-02T15:04:05-0700"

// VideosSince fetches one page of the video listing filtered to clips created
// at or after since.
func (b *Blink) VideosSince(since time.Time, page int) (*models.VideoListResponse, error) {
	var respData models.VideoListResponse

	resp, err := b.HTTP.R().
		SetQueryParam("since", since.Format(videoTimeFormat)).
		SetQueryParam("page", strconv.Itoa(page)).
		SetResult(&respData).
		Get("/api/v2/videos/changed")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get videos since %s: %s", since.Format(videoTimeFormat), resp.String())
	}
	return &respData, nil
}

// VideoPage fetches one page of the historical video listing. The endpoint
// answers with either a bare array of entries or a {message: ...} envelope,
// which models.VideoPage untangles.
func (b *Blink) VideoPage(page int) (*models.VideoPage, error) {
	var respData models.VideoPage

	resp, err := b.HTTP.R().
		SetResult(&respData).
		Get(fmt.Sprintf("/api/v2/videos/page/%d", page))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get video page %d: %s", page, resp.String())
	}
	return &respData, nil
}
