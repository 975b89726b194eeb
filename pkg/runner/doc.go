/*
Package runner executes compiled plans against a desktop through the driven ports.

It is the reference executor for domain.Plan: it enforces the screen-size precondition, re-locates
each flow's anchor at run time, resolves relative click offsets against the located anchor, and
performs the actions in order with their post delays. Input injection and image search are supplied
by the host through ports.Driver and ports.Locator.

# Usage

	r := runner.New(locator, driver, display,
		runner.WithLogger(logger),
		runner.WithLocateTimeout(10*time.Second),
	)

	if err := r.Run(ctx, plan); err != nil {
		log.Fatal(err)
	}
*/
package runner
