// Package schemas embeds the JSON Schemas used to validate persisted state and
// batch course files.
package schemas

import _ "embed"

//go:embed snapshot.schema.json
var SnapshotSchemaJSON string

//go:embed courses.schema.json
var CoursesSchemaJSON string
