package appconf

// Environment names the context the pipeline runs in. Test forces the panel
// store onto an in-memory database so test runs never touch the filesystem.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag value to an Environment.
func EnvFlagToEnvironment(s string) Environment {
	switch s {
	case "test":
		return Test
	case "production":
		return Production
	default:
		return Development
	}
}
