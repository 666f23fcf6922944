/*
Package txc is the typed object model for TransXChange documents.

TransXChange is the UK schedule interchange schema. Several shapes of it
circulate; the two supported here differ in how stops are declared:

  - inline StopPoint definitions carrying their own coordinates, as in
    the TfL exports
  - AnnotatedStopPointRef references into the national registry, as in
    standard 2.1 exports

Variant reports which shape a parsed document uses. Everything else
(services, journey patterns, timing links, vehicle journeys, operating
profiles) is shared between the variants.

Unmarshaling matches element local names, so documents parse the same
with or without the TransXChange namespace declaration. Day lists such
as DaysOfWeek and DaysOfNonOperation carry their data in the element
names themselves (<Monday/>, <MondayToFriday/>, <ChristmasDay/>); they
are captured verbatim and interpreted later, not at parse time.

The package also owns the dialect vocabulary: direction tokens, travel
modes, weekday range tokens and run-time durations.
*/
package txc
