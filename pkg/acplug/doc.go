// Package acplug surfaces AC adapter plug/unplug transitions as a stream of
// discrete events, read from the acpid daemon's Unix domain socket. It is
// structured into small files by concern:
//
//   - event.go: Event and PowerState, the two two-valued types.
//   - transition.go: the pure line-grammar/dedup state transition function.
//   - bootstrap.go: initial plugged/unplugged resolution from sysfs.
//   - stream.go: Stream, the connection-owning event source (Connect, Next, Close).
//
// The stream is edge-triggered: redundant announcements of the state it
// already holds produce no event, so callers see exactly one event per real
// transition. A Stream is single-consumer and instance-scoped; it never
// reconnects. When the peer closes the socket, Next returns io.EOF and the
// stream is done — callers wanting to resume must build a new one.
//
// Typical use:
//
//	s, err := acplug.Connect(ctx)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	for {
//		ev, err := s.Next(ctx)
//		if err == io.EOF {
//			return nil
//		}
//		if err != nil {
//			return err
//		}
//		fmt.Println(ev)
//	}
package acplug
