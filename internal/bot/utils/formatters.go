package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"editor-board/internal/listing"
	"editor-board/internal/models"
)

const contentPreviewRunes = 160

var (
	tagRegexp   = regexp.MustCompile(`<[^>]*>`)
	spaceRegexp = regexp.MustCompile(`\s+`)
)

// FormatListingCard renders one job or post as a MarkdownV2 card.
func FormatListingCard(l models.Listing, imageBase string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*%s*\n", EscapeMarkdown(l.Title)))

	if role, ok := models.ParseJobRole(l.Role); ok {
		sb.WriteString(fmt.Sprintf("🎬 *모집:* %s\n", EscapeMarkdown(role.Label())))
	}

	if l.Platform != "" {
		sb.WriteString(fmt.Sprintf("📺 *플랫폼:* %s\n", EscapeMarkdown(PlatformLabel(l.Platform))))
	}

	if len(l.VideoTypes) > 0 {
		labels := make([]string, 0, len(l.VideoTypes))
		for _, v := range l.VideoTypes {
			labels = append(labels, VideoTypeLabel(v))
		}
		sb.WriteString(fmt.Sprintf("🎞 *분야:* %s\n", EscapeMarkdown(strings.Join(labels, ", "))))
	}

	if len(l.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("🛠 *툴:* %s\n", EscapeMarkdown(strings.Join(l.Skills, ", "))))
	}

	if l.Budget != "" {
		sb.WriteString(fmt.Sprintf("💰 *예산:* %s\n", EscapeMarkdown(l.Budget)))
	}

	if l.Deadline != "" {
		sb.WriteString(fmt.Sprintf("⏰ *마감:* %s\n", EscapeMarkdown(l.Deadline)))
	}

	if l.Author.Name != "" {
		author := EscapeMarkdown(l.Author.Name)
		if l.Author.ImageURL != "" {
			author = fmt.Sprintf("[%s](%s)", author, EscapeLinkURL(models.RewriteImageURL(imageBase, l.Author.ImageURL)))
		}
		sb.WriteString(fmt.Sprintf("👤 %s\n", author))
	}

	if date := FormatDate(l.PublishedAt); date != "" {
		sb.WriteString(fmt.Sprintf("📅 %s\n", EscapeMarkdown(date)))
	}

	if preview := ContentPreview(l.Content, contentPreviewRunes); preview != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", EscapeMarkdown(preview)))
	}

	return sb.String()
}

// FormatListingPage renders the header and the cards of one page of a view.
func FormatListingPage(kind models.ListingKind, view listing.View, filters models.FilterState, imageBase string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s *%s* \\(%d건\\)\n", KindIcon(kind), EscapeMarkdown(KindTitle(kind)), view.Total))

	if !filters.IsEmpty() {
		sb.WriteString(fmt.Sprintf("_%s_\n", EscapeMarkdown(FilterSummary(filters))))
	}

	if len(view.Items) == 0 {
		if view.Total > 0 {
			sb.WriteString("\n이 페이지에는 글이 없습니다\\.")
		} else {
			sb.WriteString("\n조건에 맞는 글이 없습니다\\. /filters 에서 필터를 바꿔 보세요\\.")
		}
		return sb.String()
	}

	for _, item := range view.Items {
		sb.WriteString("\n")
		sb.WriteString(FormatListingCard(item, imageBase))
	}

	return sb.String()
}

// FormatNewListings is the header of a notification batch.
func FormatNewListings(count int) string {
	return fmt.Sprintf("🔔 *새 구인 공고 %d건\\!*", count)
}

// FilterSummary describes the active filters in one line.
func FilterSummary(filters models.FilterState) string {
	var parts []string

	if filters.Query != "" {
		parts = append(parts, fmt.Sprintf("검색어 %q", filters.Query))
	}
	if len(filters.Skills) > 0 {
		parts = append(parts, "툴: "+strings.Join(filters.Skills, ", "))
	}
	if len(filters.Types) > 0 {
		labels := make([]string, 0, len(filters.Types))
		for _, t := range filters.Types {
			labels = append(labels, VideoTypeLabel(t))
		}
		parts = append(parts, "분야: "+strings.Join(labels, ", "))
	}
	if len(filters.Platforms) > 0 {
		labels := make([]string, 0, len(filters.Platforms))
		for _, p := range filters.Platforms {
			labels = append(labels, PlatformLabel(p))
		}
		parts = append(parts, "플랫폼: "+strings.Join(labels, ", "))
	}

	if len(parts) == 0 {
		return "필터 없음"
	}
	return strings.Join(parts, " · ")
}

func FormatFiltersMessage(kind models.ListingKind, filters models.FilterState) string {
	return fmt.Sprintf(
		"🔧 *%s 필터*\n\n%s\n\n툴과 분야는 모두 일치해야 하고, 플랫폼은 하나만 맞으면 됩니다\\.",
		EscapeMarkdown(KindTitle(kind)),
		EscapeMarkdown(FilterSummary(filters)),
	)
}

func FormatProfile(p *models.Profile, imageBase string) string {
	var sb strings.Builder

	sb.WriteString("*👤 내 계정*\n\n")
	sb.WriteString(fmt.Sprintf("*닉네임:* %s\n", EscapeMarkdown(p.Nickname)))
	sb.WriteString(fmt.Sprintf("*이메일:* %s\n", EscapeMarkdown(p.Email)))

	if p.IsAdmin() {
		sb.WriteString("*권한:* 관리자\n")
	}

	if p.ProfileImageURL != "" {
		sb.WriteString(fmt.Sprintf("[프로필 이미지](%s)\n", EscapeLinkURL(models.RewriteImageURL(imageBase, p.ProfileImageURL))))
	}

	return sb.String()
}

func FormatWelcomeMessage(firstName string, profile *models.Profile) string {
	name := firstName
	if profile != nil && profile.Nickname != "" {
		name = profile.Nickname
	}
	if name == "" {
		name = "크리에이터"
	}

	return fmt.Sprintf(`👋 안녕하세요, *%s*님\!

영상 편집자와 썸네일 디자이너를 위한 구인 게시판 봇입니다\.

*할 수 있는 일:*
• 구인 공고와 커뮤니티 글 둘러보기
• 툴, 분야, 플랫폼, 검색어로 필터링
• 새 공고 알림 받기

*명령어:*
/jobs \- 구인 공고
/posts \- 커뮤니티
/filters \- 필터 설정
/login \- 로그인
/help \- 도움말`, EscapeMarkdown(name))
}

func FormatHelpMessage() string {
	return `*📖 도움말*

*명령어:*

/start \- 시작하기
/jobs \- 구인 공고 보기
/posts \- 커뮤니티 글 보기
/filters \- 필터 설정
/login \- Google 계정으로 로그인
/me \- 내 계정 정보
/logout \- 로그아웃
/settings \- 알림 설정
/help \- 도움말

*필터 사용법:*

1️⃣ /filters 에서 툴, 분야, 플랫폼을 눌러 켜고 끕니다
2️⃣ 검색어는 제목이나 본문에 포함된 글만 보여줍니다
3️⃣ 필터를 바꾸면 항상 1페이지부터 다시 보여줍니다

*알림:* /settings 에서 켜면 저장된 구인 공고 필터에 맞는 새 글을 보내드립니다\.`
}

func FormatLoginMessage() string {
	return `🔐 *로그인*

아래 버튼으로 Google 로그인을 진행하세요\.
로그인이 끝나면 봇으로 돌아와 자동으로 연결됩니다\.`
}

func FormatSettingsMessage(user *models.User) string {
	var sb strings.Builder

	sb.WriteString("*⚙️ 알림 설정*\n\n")

	status := "❌ 꺼짐"
	if user.CheckEnabled {
		status = "✅ 켜짐"
	}
	sb.WriteString(fmt.Sprintf("*상태:* %s\n", status))
	sb.WriteString(fmt.Sprintf("*주기:* %s마다\n", EscapeMarkdown(FormatInterval(user.NotifyInterval))))

	return sb.String()
}

func FormatInterval(minutes int) string {
	switch {
	case minutes >= 60 && minutes%60 == 0:
		return fmt.Sprintf("%d시간", minutes/60)
	default:
		return fmt.Sprintf("%d분", minutes)
	}
}

// FormatDate shows the day part of a publication timestamp.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006.01.02")
		}
	}
	return raw
}

// ContentPreview strips markup from a body and cuts it to max runes.
func ContentPreview(content string, max int) string {
	text := tagRegexp.ReplaceAllString(content, " ")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`).Replace(text)
	text = strings.TrimSpace(spaceRegexp.ReplaceAllString(text, " "))
	return TruncateString(text, max)
}

func KindTitle(kind models.ListingKind) string {
	if kind == models.KindPost {
		return "커뮤니티"
	}
	return "구인 공고"
}

func KindIcon(kind models.ListingKind) string {
	if kind == models.KindPost {
		return "📝"
	}
	return "💼"
}

func VideoTypeLabel(wire string) string {
	if v, ok := models.ParseVideoType(wire); ok {
		return v.Label()
	}
	return wire
}

func PlatformLabel(wire string) string {
	if p, ok := models.ParsePlatform(wire); ok {
		return p.Label()
	}
	return wire
}

// EscapeMarkdown escapes special characters for Telegram MarkdownV2
func EscapeMarkdown(text string) string {
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)

	return replacer.Replace(text)
}

// EscapeLinkURL escapes the URL part of a MarkdownV2 inline link.
func EscapeLinkURL(url string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(url)
}

// TruncateString cuts s to at most maxLen runes, marking the cut with "...".
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
