/*
Package domain contains the core models of clickflow.

It defines the automation document (flows, anchors and steps), the primitive actions produced by the
compiler and the error taxonomy shared by every component. This package is kept pure and free of
external dependencies like I/O or persistence.

# Key Entities

  - Document: the parsed flow.yaml (meta, global config, ordered flows).
  - Flow: a named, ordered sequence of steps anchored to one reference image.
  - Step: one primitive instruction (click, type, hotkey or wait), a tagged union.
  - Action: the compiled, executor-ready form of a step.
  - Plan: one or more compiled flows plus run-time preconditions.
*/
package domain
