package supabase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

// ChannelName is the NOTIFY channel the orders trigger publishes on.
const ChannelName = "orders_changes"

// RealtimeListener turns Postgres notifications on the orders table into
// change signals.
type RealtimeListener struct {
	connStr      string
	pingInterval time.Duration
}

func NewRealtimeListener(connectionString string) *RealtimeListener {
	return &RealtimeListener{
		connStr:      connectionString,
		pingInterval: 90 * time.Second,
	}
}

// Run listens until ctx is done. notify is called once per notification and
// once after every reconnect, since notifications sent while disconnected
// are lost.
func (r *RealtimeListener) Run(ctx context.Context, notify func()) error {
	listener := pq.NewListener(r.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("Warning: orders listener event %d: %v", ev, err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(ChannelName); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", ChannelName, err)
	}
	log.Printf("Listening for order changes on %s", ChannelName)

	ticker := time.NewTicker(r.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// A nil notification follows a reconnect.
			if n == nil {
				log.Println("Orders listener reconnected, refreshing")
			}
			notify()
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					log.Printf("Warning: orders listener ping failed: %v", err)
				}
			}()
		}
	}
}
