package recon

// BuildArgs are the standard construction arguments handed to every builder.
type BuildArgs struct {
	OMPThreads   int
	Anatomical   AnatomicalData
	Name         string
	OutputSuffix string
	Params       Parameters
}

// Builder constructs units for one (software, action) pair.
// Implementations live in the backends sub-package; the interface is defined
// here so the compiler can use it without an import cycle.
type Builder interface {
	Key() Key
	// Inputs and Outputs are the parameter-independent slot contract.
	Inputs() []string
	Outputs() []string
	Build(args BuildArgs) (*Unit, error)
}

// BuilderRegistry looks up builders by dispatch key.
type BuilderRegistry interface {
	Lookup(key Key) (Builder, error)
}

// Observer is notified after every pipeline build.
type Observer interface {
	ObserveBuild(spec string, p *Pipeline, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveBuild(string, *Pipeline, error) {}
