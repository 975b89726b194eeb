/*
Package dsl builds automation documents in Go instead of flow.yaml.

The builder emits the same raw mapping a YAML file would decode to, so everything it produces passes
through the regular parser and validator. It is handy for tests and for generating flows.

Example usage:

	b := dsl.New("demo").DefaultDelay(1)

	b.Flow("login").
		Title("Log in").
		Anchor("anchors/login.png", 5, 7).
		Click(3, -2).
		Type("alice", dsl.Delay(0.5)).
		Hotkey([]string{"enter"})

	source, err := b.Build()
	// source is a ports.ProjectSource with the anchor images registered
*/
package dsl
