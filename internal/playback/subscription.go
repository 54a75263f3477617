package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	NowPlaying <-chan NowPlaying
	Error      <-chan ErrorEvent
	Done       <-chan struct{}

	nowCh   chan NowPlaying
	errorCh chan ErrorEvent
	doneCh  chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		nowCh:   make(chan NowPlaying, eventBufferSize),
		errorCh: make(chan ErrorEvent, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.NowPlaying = s.nowCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendNowPlaying sends without blocking; a full buffer drops the event.
func (s *Subscription) sendNowPlaying(e NowPlaying) {
	select {
	case s.nowCh <- e:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
