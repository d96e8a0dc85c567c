// Package validator checks request and domain structs against their
// validation tags.
//
// Callers depend on the Validator interface; the v10 implementation adds the
// custom phonenumber and password tags the account endpoints rely on.
package validator
