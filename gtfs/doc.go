/*
Package gtfs defines the entity model for the feed this module produces:
one struct per output table plus the shared table metadata (canonical
table order, column order, numeric columns) that the storage and export
layers both follow.

The structs hold values exactly as they appear in the output. Times are
service-day clock strings, so a journey that rolls past midnight keeps
counting up ("24:25:00" rather than "00:25:00" on the next day). Dates
are YYYYMMDD strings; a calendar row for a service with no end date has
an empty EndDate.
*/
package gtfs
