package preview

import (
	"sync"
	"time"
)

// buildStatus tracks the outcome of the latest rebuild.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuild    time.Time
	builds       int
	hasGoodBuild bool // true if at least one successful build exists
}

func (bs *buildStatus) record(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuild = time.Now()
	bs.builds++
	if err == nil {
		bs.hasGoodBuild = true
	}
}

// Status is the JSON body of the status endpoint.
type Status struct {
	Status       string    `json:"status"`
	Builds       int       `json:"builds"`
	LastBuild    time.Time `json:"last_build,omitzero"`
	HasGoodBuild bool      `json:"has_good_build"`
}

func (bs *buildStatus) snapshot() (Status, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	s := Status{
		Status:       "ok",
		Builds:       bs.builds,
		LastBuild:    bs.lastBuild,
		HasGoodBuild: bs.hasGoodBuild,
	}
	if bs.builds == 0 {
		s.Status = "pending"
	}
	return s, bs.lastError
}
