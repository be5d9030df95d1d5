package display

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mkraev/carelink/internal/client/models"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "this is...", Truncate("this is far too long", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "", TimeAgo(nil))

	now := time.Now()
	recent := now.Add(-30 * time.Second)
	assert.Equal(t, "just now", TimeAgo(&recent))

	hourish := now.Add(-90 * time.Minute)
	assert.Equal(t, "1h ago", TimeAgo(&hourish))

	old := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jun 2", TimeAgo(&old))
}

func TestMessageRow_PendingShowsSendingMarker(t *testing.T) {
	row := MessageRow(models.Message{ID: -42, AuthorName: "Ada Osei", Body: "hello"})

	assert.True(t, strings.Contains(row, "sending..."))
	assert.True(t, strings.Contains(row, "hello"))
}
