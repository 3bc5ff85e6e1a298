package gateway

import "strings"

// TaskAgentMap maps logical task identifiers to remote agent identifiers,
// case-insensitively. It is built once at startup and read-only afterwards.
type TaskAgentMap struct {
	agents map[string]string
}

// NewTaskAgentMap freezes the given mapping. Entries with an empty task id or
// agent id are skipped; later duplicate keys (after case folding) overwrite
// earlier ones.
func NewTaskAgentMap(entries map[string]string) *TaskAgentMap {
	agents := make(map[string]string, len(entries))
	for taskID, agentID := range entries {
		if strings.TrimSpace(taskID) == "" || strings.TrimSpace(agentID) == "" {
			continue
		}
		agents[strings.ToLower(taskID)] = agentID
	}
	return &TaskAgentMap{agents: agents}
}

// Lookup returns the agent identifier configured for a task id.
func (m *TaskAgentMap) Lookup(taskID string) (string, bool) {
	agentID, ok := m.agents[strings.ToLower(taskID)]
	return agentID, ok
}

// Len returns the number of configured task entries.
func (m *TaskAgentMap) Len() int { return len(m.agents) }
