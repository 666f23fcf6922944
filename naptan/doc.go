/*
Package naptan maintains a local copy of the NaPTAN national stop
registry and answers stop lookups against it.

The registry CSV is downloaded and cached through fetchcache, parsed
into an in-memory map keyed by ATCO code, and serialized next to the
CSV as a gob index so later runs skip the parse. A lookup miss triggers
one refresh of the registry per Registry instance before the miss is
reported to the caller.

The package also carries the OSGB36 national grid conversion used when
a document supplies projected easting/northing coordinates instead of
longitude/latitude.
*/
package naptan
