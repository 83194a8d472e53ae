package handler

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

const (
	maxDescriptionLen = 255
	maxUserAgentLen   = 255
)

// Activity describes an entry of the activity log.
type Activity struct {
	Module      string
	Type        string
	Description string
	Context     string
	Err         error
}

// RecordActivity writes the entry for the current request. The principal, client address,
// user agent and request id are taken from c. A failing write is logged, never returned.
func RecordActivity(c *fiber.Ctx, db *gorm.DB, a Activity) {
	entry := &models.ActivityLog{
		Module:       a.Module,
		ActivityType: a.Type,
		Description:  truncate(a.Description, maxDescriptionLen),
		Context:      a.Context,
		Status:       activity.StatusSuccess,
		IPAddress:    c.IP(),
		UserAgent:    truncate(c.Get(fiber.HeaderUserAgent), maxUserAgentLen),
	}

	if id, ok := c.Locals(RequestIDLocalsKey).(string); ok {
		entry.RequestID = id
	}

	if a.Err != nil {
		entry.Status = activity.StatusFailure
		if entry.Context == "" {
			entry.Context = a.Err.Error()
		} else {
			entry.Context += "; " + a.Err.Error()
		}
	}

	if p := auth.PrincipalFromContext(c); p != nil {
		userID := p.UserID
		entry.UserID = &userID
		entry.UserName = p.Username
	}

	if err := activity.Record(db, entry); err != nil {
		log.Error().Err(err).Str("module", a.Module).Str("type", a.Type).Msg("failed to record activity")
	}
}

// IDList renders ids as "name=1,2,3" for Activity.Context, which has no length limit.
func IDList(name string, ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}

	return name + "=" + strings.Join(parts, ",")
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
