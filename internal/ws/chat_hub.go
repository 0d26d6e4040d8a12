package ws

// room is the set of sockets following one request's conversation. The owning Hub's lock
// guards it.
type room struct {
	requestID uint
	clients   map[*Client]struct{}
}

func newRoom(requestID uint) *room {
	return &room{requestID: requestID, clients: make(map[*Client]struct{})}
}

func (r *room) join(c *Client) {
	r.clients[c] = struct{}{}
}

func (r *room) leave(c *Client) {
	delete(r.clients, c)
}

func (r *room) size() int {
	return len(r.clients)
}

func (r *room) snapshot() []*Client {
	out := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		out = append(out, c)
	}
	return out
}
