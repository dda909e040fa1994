package infra

import (
	"strings"
	"sync"
)

// mockProcessManager is a test double for domain.ProcessManager
type mockProcessManager struct {
	mu          sync.Mutex
	names       map[string][]int // process name -> pids
	runningPIDs map[int]bool
	findErr     error
	findCalls   int
}

func newMockProcessManager() *mockProcessManager {
	return &mockProcessManager{
		names:       make(map[string][]int),
		runningPIDs: make(map[int]bool),
	}
}

func (m *mockProcessManager) FindByName(pattern string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	var pids []int
	for name, p := range m.names {
		if strings.Contains(strings.ToLower(name), strings.ToLower(pattern)) {
			pids = append(pids, p...)
		}
	}
	return pids, nil
}

func (m *mockProcessManager) IsRunning(pid int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runningPIDs[pid]
}

func (m *mockProcessManager) SetProcess(name string, pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[name] = append(m.names[name], pid)
	m.runningPIDs[pid] = true
}

func (m *mockProcessManager) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findCalls
}
