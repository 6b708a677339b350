package bfcompile

// Output is the compiled deployment plan: the validated input together with
// everything derived from it. It is immutable after Compile returns; a new
// compilation is a fresh, independent run.
type Output struct {
	Config    Config
	Names     Names
	Policies  Policies
	Bootstrap Bootstrap
}

// Compile validates cfg and eagerly computes the full plan. Validation is
// fail-fast: if any invariant is violated, no derivation runs and the returned
// error lists every violation at once.
func Compile(cfg Config) (*Output, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	names := Derive(cfg)

	return &Output{
		Config:    cfg,
		Names:     names,
		Policies:  BuildPolicies(cfg, names),
		Bootstrap: SelectBootstrap(cfg),
	}, nil
}
