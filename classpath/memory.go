package classpath

import "sort"

// Memory holds class files in memory, keyed by binary name.
type Memory struct {
	classes map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{classes: make(map[string][]byte)}
}

func (m *Memory) Add(binaryName string, data []byte) *Memory {
	m.classes[binaryName] = data
	return m
}

func (m *Memory) Kind() string { return "memory" }

func (m *Memory) ReadClass(binaryName string) ([]byte, bool, error) {
	data, ok := m.classes[binaryName]
	return data, ok, nil
}

func (m *Memory) List() ([]string, error) {
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Close() error { return nil }
