package transform

// Identity carries the role names that auth-protected resolvers are
// checked against. Both fields may be empty when the project has no
// configured identity.
type Identity struct {
	AuthRoleName   string
	UnauthRoleName string
}

// Options configure a pipeline run.
type Options struct {
	// Project is the project name resources are provisioned under.
	Project string
	// Environment is the deploy environment, defaulting to "dev".
	Environment string
	// Identity supplies role names for auth-protected resolvers.
	Identity Identity
}
