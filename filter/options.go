package filter

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	workers     int
	rowsPerTask int
}

func defaultEngineOptions() engineOptions {
	return engineOptions{}
}

// WithWorkers sets the number of pool workers.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) EngineOption {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// WithRowsPerTask fixes the number of rows in one unit of work.
// Zero or negative picks a size from the row count and worker count.
func WithRowsPerTask(n int) EngineOption {
	return func(o *engineOptions) {
		o.rowsPerTask = n
	}
}
