package app

// requirement is one value that must be present after construction.
type requirement struct {
	field   string
	present func(lc *LifecycleContext) bool
}

// requirements are checked in order; the first absent one aborts startup.
// Each accessor may assume every earlier requirement holds.
var requirements = []requirement{
	{"Resources", func(lc *LifecycleContext) bool { return lc.Resources != nil }},
	{"ViewModel", func(lc *LifecycleContext) bool { return lc.Resources.ViewModel != nil }},
	{"AppType", func(lc *LifecycleContext) bool { return lc.Resources.AppType != "" }},
	{"CancellationSignal", func(lc *LifecycleContext) bool { return lc.Signal != nil }},
	{"AppInstance", func(lc *LifecycleContext) bool { return lc.Resources.Application != nil }},
	{"LogManager", func(lc *LifecycleContext) bool { return lc.Resources.ViewModel.EventLog() != nil }},
	{"LogEntries", func(lc *LifecycleContext) bool { return lc.Resources.ViewModel.EventLog().Entries() != nil }},
	{"AppConfig", func(lc *LifecycleContext) bool { return lc.Config != nil }},
	{"ProductionPriority", func(lc *LifecycleContext) bool { return lc.Config.Priority.Valid() }},
}

// firstMissing returns the name of the first absent requirement, or "".
func firstMissing(lc *LifecycleContext) string {
	for _, r := range requirements {
		if !r.present(lc) {
			return r.field
		}
	}
	return ""
}
