// Package core provides the business logic of the discrete summary pipeline.
//
// Research cruises publish their bottle sample results as hand-assembled
// "discrete summary" spreadsheets. This package cleans them into one
// canonical schema and splits them into a CTD profile table and a discrete
// sample table, independent of where the files come from or where the
// results go. The CLI and tests drive it the same way.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Contents: [FilterContents] and [LatestContent] pick the files to
//     process from a cruise folder listing.
//   - Cleaning: [Clean] renames columns to canonical names and drops rows
//     without a cruise or a valid timestamp.
//   - Validation: [Coerce] turns measurement columns into float64, replacing
//     stray text with missing values.
//   - Splitting: [Split] derives merged sensor, date and area columns and
//     projects the profile and discrete tables.
//   - Service: The entry point tying the above to a [Source] and the
//     reference tables.
//
// # Pipeline
//
//  1. [Service.ListContents] lists every registered cruise folder
//  2. [FilterContents] keeps summary files, [LatestContent] the newest per cruise
//  3. [Service.CleanAndMerge] fetches, cleans and validates each file and
//     concatenates the results per array
//  4. [Service.Split] builds the two consolidated tables
//
// [Service.Run] performs all four steps.
//
// # Error Handling
//
// Schema drift (unnamed columns, missing expected columns, text in numeric
// columns, missing stations) is logged and processing continues. Usage
// errors and unknown station names stop the run. Technical errors are mapped
// to user-friendly messages using [MapError]:
//
//   - CFG001-CFG005: Usage errors (kind, mixed files, missing cruise)
//   - SRC001-SRC002: Registry errors
//   - FETCH001-FETCH006: Remote errors (format, size, timeout, status)
//   - DATA001-DATA004: File content errors (area, columns, empty file)
package core
