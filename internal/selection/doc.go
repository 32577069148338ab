// Package selection keeps a curated rom directory in step with a records file.
//
// A Synchronizer copies `<name>.zip` archives (and any same-named CHD
// companion) from a full romset into a selection directory, removes listed
// archives from the selection, or prunes selection archives that the records
// file no longer lists. Presence is decided by filename alone; existing files
// are never overwritten.
//
// Only a records file that cannot be read or parsed fails an operation. Every
// per-item filesystem problem is logged and the batch moves on, so callers
// observe progress through the optional callback and results through the
// directories themselves.
package selection
