package cache

import "strings"

const (
	GlobalKeyPrefix = "pdfquiz"
)

// GenerateCacheKey builds "pdfquiz:<service>:<object>:<id>". Extra params are joined by
// "_" and appended as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SessionSnapshotKey is where a quiz session is persisted.
func SessionSnapshotKey(sessionID string) string {
	return GenerateCacheKey("session", "snapshot", sessionID)
}
