// Package schema checks and coerces the dynamically typed values produced by YAML and JSON decoders.
//
// Decoders disagree on numeric representations: yaml.v3 yields int for whole numbers while
// encoding/json yields float64 for every number. The types here hide that difference:
//
//	n, err := schema.Int().Coerce(raw["clicks"])   // accepts 2, int64(2), 2.0, json.Number("2")
//	m, err := schema.Map().Coerce(raw["anchor"])   // accepts map[string]any and map[any]any
//
// Every Type also satisfies Validate, so a Type can be used purely as a predicate.
// The package has no dependencies beyond the standard library.
package schema
