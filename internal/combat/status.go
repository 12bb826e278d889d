package combat

// StatusSuppressed carries a fixed -15 to hit on top of its DefenseMod.
const StatusSuppressed = "suppressed"

// Status is a timed effect. Duration counts full turn cycles left and is
// always >= 1 while the status is held.
type Status struct {
	ID         string `json:"id"`
	Duration   int    `json:"duration"`
	DefenseMod int    `json:"defense_mod"`
}

func (u *Unit) HasStatus(id string) bool {
	for _, s := range u.Statuses {
		if s.ID == id {
			return true
		}
	}
	return false
}

// ApplyStatus adds st or refreshes an existing status with the same ID.
// Refreshing keeps the longer duration and never stacks.
func (u *Unit) ApplyStatus(st Status) {
	if st.ID == "" || st.Duration <= 0 {
		return
	}
	for i := range u.Statuses {
		if u.Statuses[i].ID != st.ID {
			continue
		}
		u.Statuses[i].Duration = max(u.Statuses[i].Duration, st.Duration)
		u.Statuses[i].DefenseMod = st.DefenseMod
		return
	}
	u.Statuses = append(u.Statuses, st)
}

// TickStatuses decrements every status once and drops those that reach zero.
// It returns the IDs that expired, in order.
func (u *Unit) TickStatuses() []string {
	var expired []string
	kept := u.Statuses[:0]
	for _, s := range u.Statuses {
		s.Duration--
		if s.Duration <= 0 {
			expired = append(expired, s.ID)
			continue
		}
		kept = append(kept, s)
	}
	u.Statuses = kept
	return expired
}

func (u *Unit) statusDefense() int {
	total := 0
	for _, s := range u.Statuses {
		total += s.DefenseMod
	}
	return total
}
