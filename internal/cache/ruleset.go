package cache

import (
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pvoloshyn/veridian/internal/model"
)

// RulesetCache keeps parsed rulesets in memory keyed by file path. Entries
// are invalidated when the file's modification time changes, so edited
// ruleset files take effect without a restart.
type RulesetCache struct {
	cache *gocache.Cache
}

type rulesetEntry struct {
	ruleset *model.Ruleset
	modTime time.Time
}

// NewRulesetCache creates a ruleset cache with the given TTL
func NewRulesetCache(ttl, cleanupInterval time.Duration) *RulesetCache {
	return &RulesetCache{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Get returns the cached ruleset for a path if it is still current
func (c *RulesetCache) Get(path string) (*model.Ruleset, bool) {
	val, found := c.cache.Get(path)
	if !found {
		return nil, false
	}
	entry := val.(rulesetEntry)

	info, err := os.Stat(path)
	if err != nil || !info.ModTime().Equal(entry.modTime) {
		c.cache.Delete(path)
		return nil, false
	}
	return entry.ruleset, true
}

// Set stores a parsed ruleset with its file's current modification time
func (c *RulesetCache) Set(path string, rs *model.Ruleset) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	c.cache.Set(path, rulesetEntry{ruleset: rs, modTime: info.ModTime()}, gocache.DefaultExpiration)
}

// Clear drops all cached rulesets
func (c *RulesetCache) Clear() {
	c.cache.Flush()
}
