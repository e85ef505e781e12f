package redis

import (
	"testing"

	"editor-board/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "listings:job", ListingsKey(models.KindJob))
	assert.Equal(t, "listings:post", ListingsKey(models.KindPost))
	assert.Equal(t, "filters:user:42:post", FilterStateKey(42, models.KindPost))
	assert.Equal(t, "ratelimit:user:42", RateLimitKey(42))
	assert.Equal(t, "state:user:42", UserStateKey(42))
	assert.Equal(t, "session:user:42:flag", SessionFlagKey(42))
	assert.Equal(t, "session:user:42:token", SessionTokenKey(42))
}

func TestKeys_DistinctPerUser(t *testing.T) {
	assert.NotEqual(t, SessionTokenKey(1), SessionTokenKey(2))
	assert.NotEqual(t, FilterStateKey(1, models.KindJob), FilterStateKey(1, models.KindPost))
}
