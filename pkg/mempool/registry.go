package mempool

import "sync"

// registry tracks every live named Pool in the process so a host can
// enumerate them for a diagnostics endpoint or a periodic log line,
// mirroring the package-level ReportMemUsage behavior the teacher's
// pkg/common/mpool exposes for its own named pools.
var registry sync.Map // name (string) -> *Pool

func register(p *Pool) {
	registry.Store(p.name, p)
}

func unregister(p *Pool) {
	registry.Delete(p.name)
}

// ReportAll returns a Snapshot for every currently registered Pool, keyed
// by pool name. Snapshots are taken independently of one another and are
// not a consistent point-in-time view across pools.
func ReportAll() map[string]Snapshot {
	out := make(map[string]Snapshot)
	registry.Range(func(key, value any) bool {
		p := value.(*Pool)
		out[key.(string)] = p.Stats()
		return true
	})
	return out
}

// Report returns the Snapshot for the named pool, if it is currently
// registered.
func Report(name string) (Snapshot, bool) {
	v, ok := registry.Load(name)
	if !ok {
		return Snapshot{}, false
	}
	return v.(*Pool).Stats(), true
}
