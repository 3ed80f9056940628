// Package api is the HTTP surface of dueDash: signup, login and the
// bearer-protected /todos resource.
//
// Every failure, whether from request decoding, the auth guard or a service,
// goes through one mapping from error kind to status code and error code.
package api
