package batch

// Job describes one conversion batch: an ordered list of input files and the
// directory that receives the extracted audio.
type Job struct {
	ID        string
	Inputs    []string
	OutputDir string
}
