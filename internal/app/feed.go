package app

// livenessFeed hands heartbeat transitions to the UI. It holds one value and
// a newer transition replaces an unread one, so the heartbeat never blocks on
// a slow UI.
type livenessFeed chan bool

func newLivenessFeed() livenessFeed {
	return make(livenessFeed, 1)
}

// publish must only be called from a single goroutine.
func (f livenessFeed) publish(online bool) {
	for {
		select {
		case f <- online:
			return
		default:
		}
		select {
		case <-f:
		default:
		}
	}
}
