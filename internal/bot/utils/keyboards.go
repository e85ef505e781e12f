package utils

import (
	"fmt"
	"strconv"

	"editor-board/internal/models"

	tele "gopkg.in/telebot.v3"
)

// Reply keyboard labels, matched by the text handler.
const (
	BtnJobs     = "💼 구인 공고"
	BtnPosts    = "📝 커뮤니티"
	BtnFilters  = "🔧 필터"
	BtnAccount  = "👤 내 계정"
	BtnSettings = "⚙️ 설정"
	BtnHelp     = "❓ 도움말"
	BtnCancel   = "❌ 취소"
)

// Facet dimensions used in callback data.
const (
	DimSkill    = "skill"
	DimType     = "type"
	DimPlatform = "platform"
)

func MainMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	menu.Reply(
		menu.Row(menu.Text(BtnJobs), menu.Text(BtnPosts)),
		menu.Row(menu.Text(BtnFilters), menu.Text(BtnAccount)),
		menu.Row(menu.Text(BtnSettings), menu.Text(BtnHelp)),
	)

	return menu
}

func CancelKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(BtnCancel)))
	return menu
}

// InlinePaginationKeyboard shows prev/current/next for a 1-based page plus a
// shortcut to the filters of the same collection.
func InlinePaginationKeyboard(kind models.ListingKind, page, totalPages int) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row

	if totalPages > 1 {
		var buttons []tele.Btn

		if page > 1 {
			buttons = append(buttons, menu.Data("⬅️ 이전", PageData(kind, page-1)))
		}

		buttons = append(buttons, menu.Data(fmt.Sprintf("%d/%d", page, totalPages), "noop"))

		if page < totalPages {
			buttons = append(buttons, menu.Data("다음 ➡️", PageData(kind, page+1)))
		}

		rows = append(rows, menu.Row(buttons...))
	}

	rows = append(rows, menu.Row(menu.Data("🔧 필터", "filters:"+string(kind))))

	menu.Inline(rows...)
	return menu
}

// InlineFiltersKeyboard lists every facet value as a toggle. Selected values
// carry a check mark.
func InlineFiltersKeyboard(kind models.ListingKind, filters models.FilterState) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row

	var skillBtns []tele.Btn
	for _, skill := range models.SkillOptions() {
		skillBtns = append(skillBtns, menu.Data(checkLabel(skill, filters.HasSkill(skill)), FacetData(kind, DimSkill, skill)))
	}
	rows = append(rows, chunk(menu, skillBtns, 3)...)

	var typeBtns []tele.Btn
	for _, v := range models.VideoTypeOptions() {
		typeBtns = append(typeBtns, menu.Data(checkLabel(v.Label(), filters.HasType(string(v))), FacetData(kind, DimType, string(v))))
	}
	rows = append(rows, chunk(menu, typeBtns, 3)...)

	var platformBtns []tele.Btn
	for _, p := range models.PlatformOptions() {
		platformBtns = append(platformBtns, menu.Data(checkLabel(p.Label(), filters.HasPlatform(string(p))), FacetData(kind, DimPlatform, string(p))))
	}
	rows = append(rows, chunk(menu, platformBtns, 3)...)

	rows = append(rows,
		menu.Row(
			menu.Data("🔍 검색어", "query:"+string(kind)),
			menu.Data("♻️ 초기화", "reset:"+string(kind)),
		),
		menu.Row(
			menu.Data(otherKindLabel(kind), "filters:"+string(otherKind(kind))),
			menu.Data("📋 결과 보기", "show:"+string(kind)),
		),
	)

	menu.Inline(rows...)
	return menu
}

func InlineLoginKeyboard(loginURL string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(menu.URL("🔐 Google로 로그인", loginURL)))
	return menu
}

func InlineAccountKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(menu.Data("🚪 로그아웃", "logout")))
	return menu
}

func InlineSettingsKeyboard(enabled bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	toggle := menu.Data("🔔 알림 켜기", "settings_toggle")
	if enabled {
		toggle = menu.Data("🔕 알림 끄기", "settings_toggle")
	}

	var intervals []tele.Btn
	for _, minutes := range NotifyIntervals {
		intervals = append(intervals, menu.Data(FormatInterval(minutes), "settings_interval:"+strconv.Itoa(minutes)))
	}

	rows := []tele.Row{menu.Row(toggle)}
	rows = append(rows, chunk(menu, intervals, 3)...)

	menu.Inline(rows...)
	return menu
}

// NotifyIntervals are the selectable notification periods in minutes.
var NotifyIntervals = []int{15, 30, 60, 120, 360, 720}

func PageData(kind models.ListingKind, page int) string {
	return fmt.Sprintf("page:%s:%d", kind, page)
}

func FacetData(kind models.ListingKind, dim, value string) string {
	return fmt.Sprintf("facet:%s:%s:%s", kind, dim, value)
}

func checkLabel(label string, selected bool) string {
	if selected {
		return "✅ " + label
	}
	return label
}

func otherKind(kind models.ListingKind) models.ListingKind {
	if kind == models.KindPost {
		return models.KindJob
	}
	return models.KindPost
}

func otherKindLabel(kind models.ListingKind) string {
	return "↔️ " + KindTitle(otherKind(kind))
}

func chunk(menu *tele.ReplyMarkup, buttons []tele.Btn, size int) []tele.Row {
	var rows []tele.Row
	for start := 0; start < len(buttons); start += size {
		end := start + size
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, menu.Row(buttons[start:end]...))
	}
	return rows
}
