package manager

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// Status returns a read-only projection of the manager state for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	resp := types.StatusResponse{
		Sessions:               make([]types.SessionStatus, 0, len(m.sessions)),
		UptimeSeconds:          int64(now.Sub(m.startedAt).Seconds()),
		ServerTimeUnix:         now.Unix(),
		OpensTotal:             m.opensTotal,
		ContainedFailuresTotal: atomic.LoadUint64(&m.failuresTotal),
		LastError:              m.lastError,
	}
	for _, s := range m.sessions {
		st := types.SessionStatus{
			SessionID: s.id,
			Model:     s.familyID,
			ImagePath: s.imagePath,
			LastUsed:  s.lastUsed.Unix(),
		}
		if port, pid, live := s.model.Runtime(); live {
			st.Port = port
			st.PID = pid
		}
		resp.Sessions = append(resp.Sessions, st)
	}
	sort.Slice(resp.Sessions, func(i, j int) bool {
		return resp.Sessions[i].SessionID < resp.Sessions[j].SessionID
	})
	return resp
}
