package engine

import "strconv"

// NewPickOrder returns the team ids "1".."n" in creation order.
func NewPickOrder(teamCount int) []string {
	order := make([]string, 0, teamCount)
	for i := 1; i <= teamCount; i++ {
		order = append(order, strconv.Itoa(i))
	}
	return order
}

func advance(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return (cursor + 1) % n
}

// OnTheClock is the team the turn pointer names. It is informational only;
// Apply does not gate picks on it.
func (d Draft) OnTheClock() string {
	if len(d.PickOrder) == 0 {
		return ""
	}
	return d.PickOrder[d.CurrentPickIndex]
}

// CurrentRound is the board round the next pick falls into.
func (d Draft) CurrentRound() int {
	if len(d.PickOrder) == 0 {
		return 1
	}
	return d.PickCount()/len(d.PickOrder) + 1
}
