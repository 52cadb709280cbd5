package effectchain

// Runtime is the per-node processing and configuration contract.
//
// Configure is called when a node is created and again whenever its
// parameters change; implementations rebuild their state only when a sizing
// parameter changes. Process reads src and writes the same number of samples
// to dst. dst and src never alias.
type Runtime interface {
	Configure(ctx Context, params Params) error
	Process(dst, src []float64) error
}

// Resetter is implemented by runtimes that can clear their signal state
// without reconfiguring.
type Resetter interface {
	Reset()
}
