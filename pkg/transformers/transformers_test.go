package transformers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

// runPipeline transforms sdl with the given transformers and fails the
// test on any error.
func runPipeline(t *testing.T, sdl string, ts ...transform.Transformer) *transform.Result {
	t.Helper()
	return runPipelineOpts(t, transform.Options{Project: "app"}, sdl, ts...)
}

func runPipelineOpts(t *testing.T, opts transform.Options, sdl string, ts ...transform.Transformer) *transform.Result {
	t.Helper()
	p, err := transform.NewPipeline(opts, ts...)
	require.NoError(t, err)
	res, err := p.Transform(sdl)
	require.NoError(t, err)
	return res
}

// transformErr runs the pipeline expecting a failure and returns the
// error.
func transformErr(t *testing.T, sdl string, ts ...transform.Transformer) error {
	t.Helper()
	p, err := transform.NewPipeline(transform.Options{Project: "app"}, ts...)
	require.NoError(t, err)
	_, err = p.Transform(sdl)
	require.Error(t, err)
	return err
}

func resourceNames(a *artifact.Artifact) []string {
	var names []string
	for _, r := range a.Resources() {
		names = append(names, r.Name)
	}
	return names
}
