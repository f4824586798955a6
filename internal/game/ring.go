package game

import "math/rand"

// Ring is the circular seating order of a started lobby.
type Ring struct {
	order []string
	index map[string]int
}

type ringLink struct {
	Previous string
	Next     string
}

func NewRing(playerIDs []string) (*Ring, error) {
	if len(playerIDs) == 0 {
		return nil, validation("new ring", "ring needs at least one player")
	}
	r := &Ring{
		order: make([]string, len(playerIDs)),
		index: make(map[string]int, len(playerIDs)),
	}
	for i, id := range playerIDs {
		if id == "" {
			return nil, validation("new ring", "player id at position %d is empty", i)
		}
		if _, dup := r.index[id]; dup {
			return nil, validation("new ring", "player %s appears twice", id)
		}
		r.order[i] = id
		r.index[id] = i
	}
	return r, nil
}

// RingFromMembers rebuilds the ring by walking NextPlayerID from the first
// member. It fails unless the pointers form one cycle over every member.
func RingFromMembers(members []Member) (*Ring, error) {
	if len(members) == 0 {
		return nil, notFound("ring", "lobby has no players")
	}
	next := make(map[string]string, len(members))
	prev := make(map[string]string, len(members))
	for _, m := range members {
		next[m.PlayerID] = m.NextPlayerID
		prev[m.PlayerID] = m.PreviousPlayerID
	}
	order := make([]string, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	current := members[0].PlayerID
	for range members {
		if _, ok := seen[current]; ok {
			break
		}
		if _, ok := next[current]; !ok {
			return nil, invalidState("ring", "pointer to unknown player %q", current)
		}
		seen[current] = struct{}{}
		order = append(order, current)
		current = next[current]
	}
	if len(order) != len(members) || current != members[0].PlayerID {
		return nil, invalidState("ring", "seating pointers do not form a single cycle")
	}
	for i, id := range order {
		if want := order[(i-1+len(order))%len(order)]; prev[id] != want {
			return nil, invalidState("ring", "player %s has previous %q, want %q", id, prev[id], want)
		}
	}
	return NewRing(order)
}

func (r *Ring) Len() int {
	return len(r.order)
}

// Order returns player ids in seating order starting at the ring's origin.
func (r *Ring) Order() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Ring) SuccessorOf(playerID string) (string, bool) {
	i, ok := r.index[playerID]
	if !ok {
		return "", false
	}
	return r.order[(i+1)%len(r.order)], true
}

func (r *Ring) PredecessorOf(playerID string) (string, bool) {
	i, ok := r.index[playerID]
	if !ok {
		return "", false
	}
	n := len(r.order)
	return r.order[(i-1+n)%n], true
}

func (r *Ring) links() map[string]ringLink {
	out := make(map[string]ringLink, len(r.order))
	for _, id := range r.order {
		prev, _ := r.PredecessorOf(id)
		next, _ := r.SuccessorOf(id)
		out[id] = ringLink{Previous: prev, Next: next}
	}
	return out
}

// ShuffleRandom is the default seating shuffle.
func ShuffleRandom(ids []string) {
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}
