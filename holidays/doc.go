/*
Package holidays resolves UK bank-holiday dates for calendar exceptions.

The national dataset from gov.uk lists holidays per division. Divisions
are merged and deduplicated by date, since a service that does not run
on bank holidays does not run on any of them. A bundled copy of the
dataset ships with the package and takes over when the live source is
unreachable.

The package also owns the alias table that connects TransXChange
non-operation tokens (ChristmasDay, SpringBank, ...) to dataset titles.
Tokens outside the table are tolerated but reported, so feed publishers
notice new token spellings.
*/
package holidays
