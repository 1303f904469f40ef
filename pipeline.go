package gdext

import "context"

// runBuildSteps executes the configure, build and verify steps in order.
//
// If any step fails, processing stops:
//   - result.Error is set to the error
//   - result.Success remains false
//   - subsequent steps are not executed
//
// The context is checked between steps so a canceled run never starts the
// build tool after its files were generated.
func runBuildSteps(ctx context.Context, s *Session, result *BuildResult, steps BuildSteps) error {
	stages := []func(context.Context, *Session, *BuildResult) error{
		steps.ConfigureFunc,
		steps.BuildFunc,
		steps.VerifyFunc,
	}

	for _, stage := range stages {
		if stage == nil {
			continue
		}

		if err := ctx.Err(); err != nil {
			result.Error = err
			return err
		}

		if err := stage(ctx, s, result); err != nil {
			result.Error = err
			return err
		}
	}

	return nil
}
