package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoPageUnmarshalArray(t *testing.T) {
	var page VideoPage
	err := json.Unmarshal([]byte(`[{"camera_name":"Cam1"},{"camera_name":"Cam2"}]`), &page)
	require.NoError(t, err)

	assert.Empty(t, page.Message)
	require.Len(t, page.Entries, 2)

	var entry VideoEntry
	require.NoError(t, json.Unmarshal(page.Entries[0], &entry))
	assert.Equal(t, "Cam1", entry.CameraName)
}

func TestVideoPageUnmarshalMessageEnvelope(t *testing.T) {
	var page VideoPage
	err := json.Unmarshal([]byte(`{"message":"rate limited"}`), &page)
	require.NoError(t, err)

	assert.Equal(t, "rate limited", page.Message)
	assert.Empty(t, page.Entries)
}

func TestVideoPageUnmarshalEmptyObject(t *testing.T) {
	var page VideoPage
	err := json.Unmarshal([]byte(`{}`), &page)
	require.NoError(t, err)

	assert.Empty(t, page.Message)
	assert.Empty(t, page.Entries)
}

func TestVideoPageUnmarshalGarbage(t *testing.T) {
	var page VideoPage
	assert.Error(t, json.Unmarshal([]byte(`12`), &page))
}

func TestVideoListMissingKeyIsNil(t *testing.T) {
	var resp VideoListResponse
	require.NoError(t, json.Unmarshal([]byte(`{}`), &resp))
	assert.Nil(t, resp.Videos)

	require.NoError(t, json.Unmarshal([]byte(`{"videos":[]}`), &resp))
	assert.NotNil(t, resp.Videos)
}
