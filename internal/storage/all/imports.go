// Package all wires every built-in output sink into the storage registry.
//
// It exists for side effects only: a blank import runs the init functions
// of each sink package, making these output kinds available:
//
//   - "file"   (schemagen/internal/storage/filesink)
//   - "stdout" (schemagen/internal/storage/stdout)
//
// Typical usage in the wiring layer:
//
//	import _ "schemagen/internal/storage/all"
//
//	sink, err := storage.New(ctx, storage.Config{Kind: "file", Path: "schema.sql"})
package all

import (
	_ "schemagen/internal/storage/filesink"
	_ "schemagen/internal/storage/stdout"
)
