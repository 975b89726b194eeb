/*
Package ports defines the driven ports (interfaces) of clickflow.

The compiler core is pure; everything that touches the outside world is reached through these
interfaces so adapters can be swapped and tests can run without a desktop.

# Key Interfaces

  - ProjectSource: reads the flow document and checks anchor images (e.g. file, memory).
  - Locator: finds an anchor image on screen.
  - Driver: injects clicks, text and hotkeys.
  - Display: reports the current screen size.
  - PlanStore: persists compiled plans (e.g. memory, redis).
*/
package ports
