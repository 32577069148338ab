// Package records parses the delimited selection lists that drive romsel.
//
// A records file is `;`-separated text whose first row names the columns.
// Every following row becomes a Record keyed by those column names, with the
// raw cell text preserved: no trimming, no type coercion, no deduplication.
// Only the `name` column is required; the synchronizer derives archive and
// companion filenames from it.
package records
