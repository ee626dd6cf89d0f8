package executor

// Config tunes the executor for one deployment.
type Config struct {
	Workers int // pool size for independent read-only plans, defaults to DefaultWorkers
}
