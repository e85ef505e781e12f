package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoType_LabelRoundTrip(t *testing.T) {
	for _, v := range VideoTypeOptions() {
		parsed, ok := ParseVideoTypeLabel(v.Label())
		require.True(t, ok, "label %q", v.Label())
		assert.Equal(t, v, parsed)
	}
}

func TestParseVideoType(t *testing.T) {
	v, ok := ParseVideoType(" mukbang ")
	assert.True(t, ok)
	assert.Equal(t, VideoTypeMukbang, v)

	_, ok = ParseVideoType("ASMR")
	assert.False(t, ok)

	_, ok = ParseVideoTypeLabel("없는 카테고리")
	assert.False(t, ok)
}

func TestVideoType_UnknownLabelFallsBackToWire(t *testing.T) {
	assert.Equal(t, "ASMR", VideoType("ASMR").Label())
	assert.Equal(t, "게임", VideoTypeGame.Label())
}

func TestJobRole(t *testing.T) {
	r, ok := ParseJobRoleLabel("썸네일 디자이너")
	require.True(t, ok)
	assert.Equal(t, RoleThumbnailDesigner, r)

	r, ok = ParseJobRole("video_editor")
	require.True(t, ok)
	assert.Equal(t, "영상 편집자", r.Label())
}

func TestPlatform(t *testing.T) {
	p, ok := ParsePlatform("YouTube")
	require.True(t, ok)
	assert.Equal(t, PlatformYouTube, p)

	p, ok = ParsePlatformLabel("치지직")
	require.True(t, ok)
	assert.Equal(t, PlatformChzzk, p)

	_, ok = ParsePlatform("myspace")
	assert.False(t, ok)
}

func TestRewriteImageURL(t *testing.T) {
	assert.Equal(t, "https://img.example.com/images/a/b.png", RewriteImageURL("https://img.example.com/", "a/b.png"))
	assert.Equal(t, "https://img.example.com/images/a.png", RewriteImageURL("https://img.example.com", "/images/a.png"))
	assert.Equal(t, "https://cdn.other/x.png", RewriteImageURL("https://img.example.com", "https://cdn.other/x.png"))
	assert.Equal(t, "", RewriteImageURL("https://img.example.com", " "))
}

func TestTags_UnmarshalSingleOrArray(t *testing.T) {
	var l struct {
		VideoTypes Tags `json:"videoType"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"videoType":"GAME"}`), &l))
	assert.Equal(t, Tags{"GAME"}, l.VideoTypes)

	require.NoError(t, json.Unmarshal([]byte(`{"videoType":["GAME","VLOG"]}`), &l))
	assert.Equal(t, Tags{"GAME", "VLOG"}, l.VideoTypes)

	l.VideoTypes = nil
	require.NoError(t, json.Unmarshal([]byte(`{"videoType":null}`), &l))
	assert.Nil(t, l.VideoTypes)

	assert.Error(t, json.Unmarshal([]byte(`{"videoType":12}`), &l))
}
