// Package naming derives identifiers and output paths for a batch run.
//
// Functions:
//   - AllocateOutputPath(dir, name): first free aggregate file name of
//     name, name_1 … name_99, falling back to name_99.
//   - GroupID / RecordingID: participant and trial identifiers taken from
//     directory and file names.
//   - CollisionResolver: keeps recording IDs unique within a group when two
//     files differ only by extension.
package naming
