// Package jwt signs and verifies the access tokens the API hands out.
//
// It provides a Claims type carrying the authenticated user on top of the
// registered claim set, an HS512 signer, and context helpers that the auth
// middleware and handlers use to pass verified claims along a request.
package jwt
