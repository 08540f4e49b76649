package server

import "time"

// Shutdown releases the browser session exactly once. Later calls return
// immediately and tool calls arriving afterwards fail with ErrShutdown.
//
// Shutdown waits up to the configured grace period for an in-flight tool
// call. If the call is still running after that, cleanup proceeds anyway so
// a hung engine call cannot keep the browser alive; the session is closed,
// so the straggler cannot store a page on it when it returns.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.closed.Store(true)

		locked := make(chan struct{})
		go func() {
			s.mu.Lock()
			close(locked)
		}()

		timer := time.NewTimer(s.grace)
		defer timer.Stop()

		select {
		case <-locked:
			defer s.mu.Unlock()
		case <-timer.C:
			s.logger.Warnf("Tool call still running after %s, cleaning up anyway", s.grace)
			go func() {
				<-locked
				s.mu.Unlock()
			}()
		}

		if s.session != nil {
			s.logger.Infof("Shutting down browser session")
			s.session.Close()
		}
	})
}
