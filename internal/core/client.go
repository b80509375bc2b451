package core

// Client is one live transport session as seen by the core layer. The core
// never owns the underlying connection; it routes events to the Events
// channel and drains commands from Commands. ID is the connection handle
// assigned by the transport layer and is stable only for the lifetime of
// this session.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// rooms is the reverse index handle->rooms, so disconnect cleanup is
	// O(rooms joined). Owned by the hub goroutine.
	rooms map[string]struct{}

	// done is closed by the hub when the client is dropped.
	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
		rooms:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
}
