package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func intervalSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func secondsInterval(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}
