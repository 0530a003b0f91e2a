package cache

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/ndmsystems/logger"
	gocache "github.com/patrickmn/go-cache"

	"github.com/coalalib/coalamsg/response"
)

const DefaultCleanupInterval = time.Second * 30

type entry struct {
	resp    *response.ResponseMessage
	etag    []byte
	expires time.Time
}

// Cache holds responses for as long as their Max-Age allows. Keys are
// chosen by the caller, typically endpoint and request cache key.
// It is safe for concurrent use; cached responses must not be modified.
type Cache struct {
	storage *gocache.Cache
	Metrics *MetricsList
}

func New(cleanupInterval time.Duration) *Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	c := &Cache{
		storage: gocache.New(response.DefaultMaxAge, cleanupInterval),
		Metrics: newMetricsList(),
	}
	c.storage.OnEvicted(func(key string, _ interface{}) {
		log.Debug(fmt.Sprintf("coap cache: %q expired", key))
	})
	return c
}

// Put stores a success response for its freshness lifetime and reports
// whether it was stored. Error responses, Unknown codes and Max-Age 0 are
// not cached.
func (c *Cache) Put(key string, r *response.ResponseMessage) bool {
	if r == nil || !r.Code().IsSuccess() {
		return false
	}
	ttl := r.FreshFor()
	if ttl <= 0 {
		c.storage.Delete(key)
		return false
	}

	expires := time.Now().Add(ttl)
	c.storage.Set(key, &entry{resp: r, etag: r.ETag(), expires: expires}, ttl)
	c.Metrics.Stores.Inc()
	log.Debug(fmt.Sprintf("coap cache: stored %q (%v), fresh until %s", key, r, humanize.Time(expires)))
	return true
}

// Get returns a fresh response stored under key.
func (c *Cache) Get(key string) (*response.ResponseMessage, bool) {
	v, ok := c.storage.Get(key)
	if !ok {
		c.Metrics.Misses.Inc()
		return nil, false
	}
	c.Metrics.Hits.Inc()
	return v.(*entry).resp, true
}

// ETag returns the entity tag of the response stored under key, nil when
// there is none. Clients send it in If-Match/ETag to revalidate.
func (c *Cache) ETag(key string) []byte {
	v, ok := c.storage.Get(key)
	if !ok {
		return nil
	}
	return v.(*entry).etag
}

// Revalidate handles a 2.03 Valid answer to a conditional request. When its
// ETag matches the stored response, the stored response becomes fresh again
// for the Max-Age of valid and is returned.
func (c *Cache) Revalidate(key string, valid *response.ResponseMessage) (*response.ResponseMessage, bool) {
	if valid == nil || valid.Code() != response.Valid {
		return nil, false
	}
	v, ok := c.storage.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(*entry)

	tag := valid.ETag()
	if tag == nil || !bytes.Equal(tag, e.etag) {
		log.Debug(fmt.Sprintf("coap cache: %q etag mismatch, dropping", key))
		c.storage.Delete(key)
		return nil, false
	}

	c.Metrics.Revalidations.Inc()
	ttl := valid.FreshFor()
	if ttl <= 0 {
		c.storage.Delete(key)
		return e.resp, true
	}
	expires := time.Now().Add(ttl)
	c.storage.Set(key, &entry{resp: e.resp, etag: e.etag, expires: expires}, ttl)
	log.Debug(fmt.Sprintf("coap cache: revalidated %q, fresh until %s", key, humanize.Time(expires)))
	return e.resp, true
}

// Expires returns when the response under key stops being fresh.
func (c *Cache) Expires(key string) (time.Time, bool) {
	v, ok := c.storage.Get(key)
	if !ok {
		return time.Time{}, false
	}
	return v.(*entry).expires, true
}

func (c *Cache) Delete(key string) {
	c.storage.Delete(key)
}

func (c *Cache) Len() int {
	return c.storage.ItemCount()
}

func (c *Cache) Flush() {
	c.storage.Flush()
}
