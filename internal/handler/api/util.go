package api

import (
	"strings"
	"time"

	"FinSight/pkg/util"
)

func splitHorizons(raw string) []string {
	return util.SplitList(strings.ToLower(raw))
}

func hoursAgo(h int) time.Time {
	return time.Now().Add(-time.Duration(h) * time.Hour)
}
