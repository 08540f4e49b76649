// Package config loads and persists mcp-web-browser settings. Settings are
// grouped into sections registered with a Manager and stored in a single JSON
// or YAML file.
package config

// Load builds a manager over the file at path with the default sections
// registered and loaded.
func Load(path string) (*Manager, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	if err := manager.RegisterSection(NewBrowserSection()); err != nil {
		return nil, err
	}
	if err := manager.RegisterSection(NewLoggingSection()); err != nil {
		return nil, err
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// BrowserOf returns the browser section registered with m, or nil.
func BrowserOf(m *Manager) *BrowserSection {
	section, ok := m.GetSection(SectionIDBrowser)
	if !ok {
		return nil
	}
	b, _ := section.(*BrowserSection)
	return b
}

// LoggingOf returns the logging section registered with m, or nil.
func LoggingOf(m *Manager) *LoggingSection {
	section, ok := m.GetSection(SectionIDLogging)
	if !ok {
		return nil
	}
	l, _ := section.(*LoggingSection)
	return l
}
