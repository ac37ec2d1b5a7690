package log

// MultiLogger fans trace events out to several loggers. Loggers added with
// Route only see the events their filter matches, so a trace file can keep
// just the failures while a SlogAdapter still prints everything.
//
// Log is safe for concurrent use once all routes are set up; Route is not.
type MultiLogger struct {
	routes []route
}

type route struct {
	filter Filter
	logger Logger
}

// NewMultiLogger creates a MultiLogger that sends every event to each of
// loggers. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{routes: make([]route, 0, len(loggers))}
	for _, l := range loggers {
		m.Route(Filter{}, l)
	}
	return m
}

// Route adds l as a destination for the events matching filter. A nil l is
// skipped. It returns m for chaining.
func (m *MultiLogger) Route(filter Filter, l Logger) *MultiLogger {
	if l != nil {
		m.routes = append(m.routes, route{filter: filter, logger: l})
	}
	return m
}

// Len returns the number of destinations.
func (m *MultiLogger) Len() int {
	return len(m.routes)
}

// Log sends the event to every destination whose filter matches it.
func (m *MultiLogger) Log(event Event) {
	for i := range m.routes {
		r := &m.routes[i]
		if r.filter.matches(event) {
			r.logger.Log(event)
		}
	}
}

var _ Logger = (*MultiLogger)(nil)
