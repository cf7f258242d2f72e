// Package domain models incident report rows and the records built from them.
//
// # Data Source
//
// Incident reports arrive as spreadsheets uploaded by field coordinators. Only
// the first sheet is read and its first row supplies the column headers. The
// columns this package understands are:
//
//	LATITUDE, LONGITUDE      decimal degrees, required
//	INCIDENT DATE            date serial or free text
//	INCIDENT TIME            free text, e.g. "14:00"
//	INCIDENT CATEGORY        -> title
//	INCIDENT DESCRIPTION     -> description
//	COUNTY                   -> county
//	ACTORS                   -> actor
//
// Any other column is carried in the [RawRow] but ignored.
//
// # Cell Values
//
// Decoded cells are a tagged [Cell] holding a number, text, a boolean or
// nothing at all. A false boolean counts as missing for defaulting. Nothing is
// coerced during decoding, so a date typed as text stays text and a
// date-formatted numeric cell arrives as its serial.
//
// # Date Serials
//
// Spreadsheets count days from 1899-12-30. The Unix epoch is serial 25569, so
//
//	seconds = (serial - 25569) * 86400
//
// Serial 44197 is 2021-01-01. Fractional serials carry a time of day, which is
// discarded: only the calendar date (UTC) is kept. Text dates are stored
// verbatim without validation, and any other value gives "Invalid Date".
//
// # Validation and Defaults
//
// A row is accepted only when both coordinates parse to finite numbers. Text
// coordinates are read from their leading decimal prefix, so "6.5 N" is 6.5.
// Rejected rows are dropped without error.
//
// Optional text fields fall back to "N/A" when the cell is absent, empty or
// numeric zero. A missing INCIDENT TIME is rendered as "N/A" in the composed
// time string ("2021-01-01 N/A").
package domain
