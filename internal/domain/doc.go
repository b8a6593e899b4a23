// Package domain models the three civic datasets the analytics pipeline
// joins: Boston crime incident reports, NOAA daily weather summaries, and the
// city building inventory.
//
// # Data Sources
//
// Crime incident reports come from the Boston Police Department export on
// Analyze Boston, prepped so OCCURRED_ON_DATE holds a bare ISO day
// (YYYY-MM-DD). Weather is the NOAA GHCN daily summary for the Boston Logan
// station. The building inventory is the city permit/typology export with
// street name and suffix split across two columns.
//
// # Dataset Conventions
//
// Column values load as strings:
//
//	Every source column is read verbatim. The analysis layer groups, joins,
//	and counts; it parses a value to float only at the point arithmetic is
//	required. Joined outputs therefore preserve source formatting (a TAVG of
//	"26" stays "26", never 26.0). The one exception is the building income
//	shares (PCT_INCOME_*), which are numeric at load because nothing ever
//	treats them as labels.
//
// Street join key:
//
//	Crime rows carry a full street string; building rows split it into
//	ST_NAME and ST_NAME_SUF, either of which may carry stray padding.
//	[StreetLocation] glues the trimmed halves with one space and trims the
//	result, so "WASHINGTON" + " ST " and "WASHINGTON ST" produce the same
//	key. Rows whose key is empty never join anything and are dropped before
//	joining.
//
// Permit dates:
//
//	The permit export writes dates as DD-MON-YY ("01-JAN-21"). [ModifyDate]
//	rewrites them to ISO so they sort and join against the other datasets.
//	An unknown month abbreviation is an error; there is no fallback value.
//
// Derived columns:
//
//	Columns the pipeline creates (crime_count, count, percentage, bucket,
//	street_location) use lowercase names, keeping them visually distinct
//	from source columns, which are uppercase throughout.
package domain
