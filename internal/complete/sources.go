package complete

// Sources runs the local and global sources for one request.
type Sources struct {
	Collector *Collector
}

// NewSources creates Sources around a collector.
func NewSources(c *Collector) *Sources {
	return &Sources{Collector: c}
}

// Complete returns the non-empty results, local names first.
func (s *Sources) Complete(cx Context) []*Result {
	var out []*Result
	if r := s.Collector.Local(cx); r != nil && len(r.Options) > 0 {
		out = append(out, r)
	}
	if r := Global(cx); r != nil {
		out = append(out, r)
	}
	return out
}
