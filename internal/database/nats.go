package database

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// ConnectNats dials the NATS server used for notification event fan-out.
// An empty URL disables eventing and returns a nil connection.
func ConnectNats(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := nats.Connect(url, nats.Name("admin-go-api"))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
