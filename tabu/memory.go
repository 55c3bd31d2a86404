package tabu

// memory maps canonical state keys to the move index at which they stop
// being tabu. Expired entries are swept once the map outgrows limit, so the
// footprint stays O(MaxTenure) keys.
type memory struct {
	until map[string]int
	limit int
}

func newMemory(maxTenure int) *memory {
	limit := 4 * (maxTenure + 1)

	return &memory{until: make(map[string]int, limit), limit: limit}
}

// isTabu reports whether key is still forbidden at move.
func (m *memory) isTabu(key string, move int) bool {
	exp, ok := m.until[key]

	return ok && exp > move
}

// remember forbids key until move+tenure.
func (m *memory) remember(key string, move, tenure int) {
	m.until[key] = move + tenure
	if len(m.until) > m.limit {
		m.sweep(move)
	}
}

// sweep drops entries that expired at or before move.
func (m *memory) sweep(move int) {
	for k, exp := range m.until {
		if exp <= move {
			delete(m.until, k)
		}
	}
}

func (m *memory) len() int { return len(m.until) }
