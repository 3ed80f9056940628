// Package auth is the authentication gateway: signup, login and resolving
// the user behind a bearer token.
//
// Login failures for an unknown user and for a wrong password are reported
// identically, and so are forged tokens and tokens naming a user that no
// longer resolves.
package auth
