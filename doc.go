/*
Package clickflow replays recorded UI clicks relative to a visual anchor.

A project directory holds a flow.yaml and the anchor images it references. Each flow stores one
anchor (a reference image plus the pixel inside it that was clicked) and steps whose click
positions are offsets from that pixel. At run time the anchor is located on screen again, so the
clicks follow the UI when it moves.

# Pipeline

  - Parse: the raw document is validated into a typed domain.Document. Every defect is a
    *domain.SpecError carrying a kind and a path such as "flow[login].step[2].offset".
  - Compile: each flow becomes an ordered list of actions. Clicks keep their relative offsets.
  - Compose: several flows are joined into one domain.Plan together with the screen-size
    precondition recorded by the editor.
  - Emit or run: a plan is written as JSON, YAML or a pyautogui script (package emit), or executed
    through the ports.Locator, ports.Driver and ports.Display interfaces (package runner).

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/clickflow"
		"github.com/aretw0/clickflow/pkg/emit"
	)

	func main() {
		ctx := context.Background()

		project, err := clickflow.Open(ctx, "./my-project")
		if err != nil {
			log.Fatal(err)
		}

		plan, err := project.Compile(ctx, []string{"login", "export"}, clickflow.CompileOptions{UseConfidence: true})
		if err != nil {
			log.Fatal(err)
		}

		if err := project.Emit(os.Stdout, emit.FormatPyAutoGUI, plan); err != nil {
			log.Fatal(err)
		}
	}
*/
package clickflow
