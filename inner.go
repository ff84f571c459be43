package dockit

import "github.com/AbhinavPrakashCoading/Dockit-sub000/core"

// Inner exposes the underlying core.Processor for advanced use (e.g., direct
// pool access in tests).  Prefer the high-level API for normal usage.
func (t *Transformer) Inner() *core.Processor { return t.inner }