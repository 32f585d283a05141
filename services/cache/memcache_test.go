package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	// Test if memcached is available
	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a visit entry
	err = mc.Set("visited:https://portal.test/adv/1", []byte(`["https://portal.test/creative/1"]`), 1*time.Second)
	assert.NoError(t, err)

	// Get the entry back
	value, err := mc.Get("visited:https://portal.test/adv/1")
	assert.NoError(t, err)
	assert.Equal(t, `["https://portal.test/creative/1"]`, string(value))

	// Delete the entry
	err = mc.Delete("visited:https://portal.test/adv/1")
	assert.NoError(t, err)

	// Try to get the deleted entry
	_, err = mc.Get("visited:https://portal.test/adv/1")
	assert.Error(t, err)
}
