package models

import "strings"

// VideoType is the closed set of video categories the backend accepts.
type VideoType string

const (
	VideoTypeGame          VideoType = "GAME"
	VideoTypeVlog          VideoType = "VLOG"
	VideoTypeEducation     VideoType = "EDUCATION"
	VideoTypeEntertainment VideoType = "ENTERTAINMENT"
	VideoTypeMukbang       VideoType = "MUKBANG"
	VideoTypeBeauty        VideoType = "BEAUTY"
	VideoTypeMusic         VideoType = "MUSIC"
	VideoTypeSports        VideoType = "SPORTS"
	VideoTypeEtc           VideoType = "ETC"
)

var videoTypes = []VideoType{
	VideoTypeGame,
	VideoTypeVlog,
	VideoTypeEducation,
	VideoTypeEntertainment,
	VideoTypeMukbang,
	VideoTypeBeauty,
	VideoTypeMusic,
	VideoTypeSports,
	VideoTypeEtc,
}

var videoTypeLabels = map[VideoType]string{
	VideoTypeGame:          "게임",
	VideoTypeVlog:          "브이로그",
	VideoTypeEducation:     "교육",
	VideoTypeEntertainment: "엔터테인먼트",
	VideoTypeMukbang:       "먹방",
	VideoTypeBeauty:        "뷰티",
	VideoTypeMusic:         "음악",
	VideoTypeSports:        "스포츠",
	VideoTypeEtc:           "기타",
}

func VideoTypeOptions() []VideoType {
	out := make([]VideoType, len(videoTypes))
	copy(out, videoTypes)
	return out
}

// Label returns the display name, or the raw value for unknown types.
func (v VideoType) Label() string {
	if label, ok := videoTypeLabels[v]; ok {
		return label
	}
	return string(v)
}

func (v VideoType) Valid() bool {
	_, ok := videoTypeLabels[v]
	return ok
}

// ParseVideoType converts a wire value (case-insensitive) into a VideoType.
func ParseVideoType(wire string) (VideoType, bool) {
	v := VideoType(strings.ToUpper(strings.TrimSpace(wire)))
	return v, v.Valid()
}

// ParseVideoTypeLabel converts a display label into a VideoType.
func ParseVideoTypeLabel(label string) (VideoType, bool) {
	label = strings.TrimSpace(label)
	for _, v := range videoTypes {
		if videoTypeLabels[v] == label {
			return v, true
		}
	}
	return "", false
}

// JobRole is the kind of freelancer a job offer is looking for.
type JobRole string

const (
	RoleVideoEditor       JobRole = "VIDEO_EDITOR"
	RoleThumbnailDesigner JobRole = "THUMBNAIL_DESIGNER"
)

var jobRoleLabels = map[JobRole]string{
	RoleVideoEditor:       "영상 편집자",
	RoleThumbnailDesigner: "썸네일 디자이너",
}

func (r JobRole) Label() string {
	if label, ok := jobRoleLabels[r]; ok {
		return label
	}
	return string(r)
}

func ParseJobRole(wire string) (JobRole, bool) {
	r := JobRole(strings.ToUpper(strings.TrimSpace(wire)))
	_, ok := jobRoleLabels[r]
	return r, ok
}

func ParseJobRoleLabel(label string) (JobRole, bool) {
	label = strings.TrimSpace(label)
	for r, l := range jobRoleLabels {
		if l == label {
			return r, true
		}
	}
	return "", false
}

// Platform is where the creator publishes.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformX         Platform = "x"
	PlatformChzzk     Platform = "chzzk"
	PlatformSoop      Platform = "soop"
)

var platforms = []Platform{
	PlatformYouTube,
	PlatformInstagram,
	PlatformTikTok,
	PlatformX,
	PlatformChzzk,
	PlatformSoop,
}

var platformLabels = map[Platform]string{
	PlatformYouTube:   "유튜브",
	PlatformInstagram: "인스타그램",
	PlatformTikTok:    "틱톡",
	PlatformX:         "X",
	PlatformChzzk:     "치지직",
	PlatformSoop:      "SOOP",
}

func PlatformOptions() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

func (p Platform) Label() string {
	if label, ok := platformLabels[p]; ok {
		return label
	}
	return string(p)
}

func ParsePlatform(wire string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(wire)))
	_, ok := platformLabels[p]
	return p, ok
}

func ParsePlatformLabel(label string) (Platform, bool) {
	label = strings.TrimSpace(label)
	for _, p := range platforms {
		if platformLabels[p] == label {
			return p, true
		}
	}
	return "", false
}

// SkillOptions are the tools offered as quick filters. Listings may carry any skill tag.
func SkillOptions() []string {
	return []string{
		"Premiere",
		"DaVinci",
		"Final Cut",
		"After Effects",
		"Photoshop",
		"Illustrator",
		"Vrew",
		"CapCut",
	}
}

// RewriteImageURL turns a storage key into a URL served by the image proxy.
// Absolute URLs are returned unchanged.
func RewriteImageURL(base, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	key = strings.TrimPrefix(key, "/")
	key = strings.TrimPrefix(key, "images/")
	return strings.TrimRight(base, "/") + "/images/" + key
}
