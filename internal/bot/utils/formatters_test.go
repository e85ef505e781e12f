package utils

import (
	"strings"
	"testing"

	"editor-board/internal/listing"
	"editor-board/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `1\.5 \- 2\.0 \(VAT\)\!`, EscapeMarkdown("1.5 - 2.0 (VAT)!"))
	assert.Equal(t, `\#tag \_x\_`, EscapeMarkdown("#tag _x_"))
	assert.Equal(t, "평범한 문장", EscapeMarkdown("평범한 문장"))
}

func TestTruncateString_CountsRunes(t *testing.T) {
	assert.Equal(t, "짧다", TruncateString("짧다", 10))
	assert.Equal(t, "가나다...", TruncateString("가나다라마바사", 6))
}

func TestContentPreview_StripsMarkup(t *testing.T) {
	got := ContentPreview("<p>편집자 <b>모집</b></p>\n\n<p>주 2회&nbsp;업로드</p>", 100)
	assert.Equal(t, "편집자 모집 주 2회 업로드", got)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024.02.01", FormatDate("2024-02-01"))
	assert.Equal(t, "2024.02.01", FormatDate("2024-02-01T09:30:00Z"))
	assert.Equal(t, "2024.02.01", FormatDate("2024-02-01T09:30:00"))
	assert.Equal(t, "어제", FormatDate("어제"))
	assert.Equal(t, "", FormatDate(" "))
}

func TestFormatInterval(t *testing.T) {
	assert.Equal(t, "15분", FormatInterval(15))
	assert.Equal(t, "1시간", FormatInterval(60))
	assert.Equal(t, "90분", FormatInterval(90))
	assert.Equal(t, "12시간", FormatInterval(720))
}

func TestLabels_FallBackToRawValue(t *testing.T) {
	assert.Equal(t, "게임", VideoTypeLabel("game"))
	assert.Equal(t, "ASMR", VideoTypeLabel("ASMR"))
	assert.Equal(t, "유튜브", PlatformLabel("YouTube"))
	assert.Equal(t, "twitch", PlatformLabel("twitch"))
}

func TestFilterSummary(t *testing.T) {
	assert.Equal(t, "필터 없음", FilterSummary(models.NewFilterState()))

	f := models.NewFilterState()
	f.SetQuery("롤")
	f.ToggleSkill("Premiere")
	f.ToggleType("GAME")
	f.TogglePlatform("youtube")

	assert.Equal(t, `검색어 "롤" · 툴: Premiere · 분야: 게임 · 플랫폼: 유튜브`, FilterSummary(f))
}

func TestFormatListingCard(t *testing.T) {
	l := models.Listing{
		ID:          1,
		Title:       "게임 편집자 구합니다!",
		Content:     "<p>주 3회</p>",
		PublishedAt: "2024-01-01",
		Skills:      []string{"Premiere"},
		VideoTypes:  models.Tags{"GAME"},
		Platform:    "youtube",
		Role:        "VIDEO_EDITOR",
		Author:      models.Author{Name: "creator", ImageURL: "profile/1.png"},
	}

	card := FormatListingCard(l, "https://img.example.com")

	assert.Contains(t, card, `*게임 편집자 구합니다\!*`)
	assert.Contains(t, card, "영상 편집자")
	assert.Contains(t, card, "유튜브")
	assert.Contains(t, card, "🎞 *분야:* 게임")
	assert.Contains(t, card, "[creator](https://img.example.com/images/profile/1.png)")
	assert.Contains(t, card, `2024\.01\.01`)
	assert.Contains(t, card, "주 3회")
}

func TestFormatListingPage_Empty(t *testing.T) {
	view := listing.View{Items: []models.Listing{}, Page: 1}

	msg := FormatListingPage(models.KindJob, view, models.NewFilterState(), "")
	assert.Contains(t, msg, "구인 공고")
	assert.Contains(t, msg, "조건에 맞는 글이 없습니다")

	view.Total = 3
	view.Page = 9
	msg = FormatListingPage(models.KindPost, view, models.NewFilterState(), "")
	assert.Contains(t, msg, "커뮤니티")
	assert.Contains(t, msg, "이 페이지에는 글이 없습니다")
}

func TestFormatListingPage_ListsItems(t *testing.T) {
	view := listing.View{
		Items:      []models.Listing{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}},
		Page:       1,
		TotalPages: 1,
		Total:      2,
	}
	f := models.NewFilterState()
	f.ToggleSkill("DaVinci")

	msg := FormatListingPage(models.KindJob, view, f, "")
	assert.Contains(t, msg, `\(2건\)`)
	assert.Contains(t, msg, "DaVinci")
	assert.Less(t, strings.Index(msg, "*B*"), strings.Index(msg, "*A*"))
}

func TestFormatProfile(t *testing.T) {
	p := &models.Profile{Nickname: "ed.it", Email: "a@b.c", Authority: "ADMIN", ProfileImageURL: "https://cdn/x.png"}

	msg := FormatProfile(p, "https://img")
	assert.Contains(t, msg, `ed\.it`)
	assert.Contains(t, msg, "관리자")
	assert.Contains(t, msg, "(https://cdn/x.png)")
}

func TestFormatWelcomeMessage_PrefersNickname(t *testing.T) {
	assert.Contains(t, FormatWelcomeMessage("Ivan", nil), "*Ivan*")
	assert.Contains(t, FormatWelcomeMessage("Ivan", &models.Profile{Nickname: "편집왕"}), "*편집왕*")
	assert.Contains(t, FormatWelcomeMessage("", nil), "크리에이터")
}
