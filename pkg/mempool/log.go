package mempool

import "go.uber.org/zap"

// poolLogger is a thin leveled wrapper over an injected *zap.Logger,
// mirroring the way pkg/vm/process.Process wraps zap rather than reaching
// for a package-global logger. A Pool built without WithLogger gets a no-op
// logger, so the library stays silent unless a caller opts in.
type poolLogger struct {
	z *zap.Logger
}

func newPoolLogger(z *zap.Logger) poolLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return poolLogger{z: z}
}

func (l poolLogger) debugCommit(name string, handle Handle, size int) {
	l.z.Debug("mempool commit",
		zap.String("pool", name),
		zap.Uint64("handle", uint64(handle)),
		zap.Int("size", size),
	)
}

func (l poolLogger) debugRelease(name string, handle Handle) {
	l.z.Debug("mempool release",
		zap.String("pool", name),
		zap.Uint64("handle", uint64(handle)),
	)
}

func (l poolLogger) debugL1(name string, freedRuns int) {
	l.z.Debug("mempool tier-1 compaction",
		zap.String("pool", name),
		zap.Int("free_runs_after", freedRuns),
	)
}

func (l poolLogger) warnL2(name string, size, capacity int) {
	l.z.Warn("mempool tier-2 compaction",
		zap.String("pool", name),
		zap.Int("requested", size),
		zap.Int("capacity", capacity),
	)
}

func (l poolLogger) warnOutOfSpace(name string, size int, available int) {
	l.z.Warn("mempool out of space",
		zap.String("pool", name),
		zap.Int("requested", size),
		zap.Int("available", available),
	)
}
