package manager

import "github.com/cfusterbarcelo/SAMJ/internal/backend"

// Config captures the knobs the daemon passes to the Manager.
type Config struct {
	// Python interpreter used to run backend helpers.
	PythonBin string
	// Directory holding the per-family helper scripts.
	ScriptsDir string
	// Directory holding the model checkpoints.
	WeightsDir string
	// Family id used when a request omits the model.
	DefaultModel string
	// Optional port range for backend helpers; zero picks free ports.
	PortStart int
	PortEnd   int
	// Launcher overrides the subprocess launcher; tests inject fakes here.
	Launcher backend.Launcher
}
