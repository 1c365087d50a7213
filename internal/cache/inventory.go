package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ScreamKeyPrefix = "scream:%s"
	UserKeyPrefix   = "user:%s"
	ScreamsListKey  = "screams:list"
)

const (
	ScreamTTL = 10 * time.Minute
	UserTTL   = 5 * time.Minute
	ListTTL   = 30 * time.Second
)

func ScreamKey(screamID string) string {
	return fmt.Sprintf(ScreamKeyPrefix, screamID)
}

func UserKey(handle string) string {
	return fmt.Sprintf(UserKeyPrefix, handle)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateScreams drops the cached copies of the given screams and the
// feed, which embeds their counters and author images.
func InvalidateScreams(ctx context.Context, screamIDs ...string) {
	keys := make([]string, 0, len(screamIDs)+1)
	for _, id := range screamIDs {
		keys = append(keys, ScreamKey(id))
	}
	keys = append(keys, ScreamsListKey)
	Invalidate(ctx, keys...)
}

func InvalidateUser(ctx context.Context, handle string) {
	Invalidate(ctx, UserKey(handle))
}
