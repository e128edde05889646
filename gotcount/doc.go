// Package gotcount compiles filter queries such as
//
//	age:[18,65);city:{Berlin,Paris};born:!2012-12-24
//
// into a Filter of per-dimension checks, and evaluates them against
// single values, records and named buckets.
package gotcount
