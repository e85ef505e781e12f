package utils

import (
	"testing"

	"editor-board/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlinePaginationKeyboard(t *testing.T) {
	menu := InlinePaginationKeyboard(models.KindJob, 2, 3)
	require.Len(t, menu.InlineKeyboard, 2)

	nav := menu.InlineKeyboard[0]
	require.Len(t, nav, 3)
	assert.Equal(t, "page:job:1", nav[0].Unique)
	assert.Equal(t, "2/3", nav[1].Text)
	assert.Equal(t, "page:job:3", nav[2].Unique)
	assert.Equal(t, "filters:job", menu.InlineKeyboard[1][0].Unique)
}

func TestInlinePaginationKeyboard_Edges(t *testing.T) {
	first := InlinePaginationKeyboard(models.KindPost, 1, 2)
	require.Len(t, first.InlineKeyboard[0], 2)
	assert.Equal(t, "page:post:2", first.InlineKeyboard[0][1].Unique)

	single := InlinePaginationKeyboard(models.KindPost, 1, 1)
	require.Len(t, single.InlineKeyboard, 1, "only the filters row")
}

func TestInlineFiltersKeyboard_MarksSelected(t *testing.T) {
	f := models.NewFilterState()
	f.ToggleSkill("Premiere")
	f.ToggleType("GAME")

	menu := InlineFiltersKeyboard(models.KindJob, f)

	texts := map[string]string{}
	for _, row := range menu.InlineKeyboard {
		for _, btn := range row {
			texts[btn.Unique] = btn.Text
		}
	}

	assert.Equal(t, "✅ Premiere", texts["facet:job:skill:Premiere"])
	assert.Equal(t, "DaVinci", texts["facet:job:skill:DaVinci"])
	assert.Equal(t, "✅ 게임", texts["facet:job:type:GAME"])
	assert.Equal(t, "유튜브", texts["facet:job:platform:youtube"])
	assert.Contains(t, texts, "query:job")
	assert.Contains(t, texts, "reset:job")
	assert.Contains(t, texts, "show:job")
	assert.Contains(t, texts, "filters:post")
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	menu := InlineFiltersKeyboard(models.KindPost, models.NewFilterState())
	for _, row := range menu.InlineKeyboard {
		for _, btn := range row {
			assert.LessOrEqual(t, len(btn.CallbackUnique()), 64, btn.Unique)
		}
	}
}

func TestInlineSettingsKeyboard(t *testing.T) {
	on := InlineSettingsKeyboard(true)
	assert.Equal(t, "🔕 알림 끄기", on.InlineKeyboard[0][0].Text)

	off := InlineSettingsKeyboard(false)
	assert.Equal(t, "settings_toggle", off.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "settings_interval:15", off.InlineKeyboard[1][0].Unique)
}
