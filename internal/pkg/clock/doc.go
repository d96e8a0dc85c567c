// Package clock abstracts the current time behind a small interface.
//
// Code that issues codes or timestamps tokens takes a Clocker rather than
// calling time.Now directly, so tests can pin time to an exact interval
// boundary.
package clock
