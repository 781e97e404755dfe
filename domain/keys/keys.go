package keys

import (
	"strings"
)

const (
	// PfxLock prefixes the registry lock key
	PfxLock = "lock"
	// PfxHttpCache prefixes cached GET responses
	PfxHttpCache = "httpCache"
)

// RedisKey joins key components with ":"
func RedisKey(components ...string) string {
	return strings.Join(components, ":")
}

// GetPrefix extracts the prefix of a key, at most two components, for
// tagging metrics without blowing up cardinality
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 2 {
		return strings.Join(s[:2], ":")
	} else if len(s) > 1 {
		return s[0]
	}
	return ""
}
