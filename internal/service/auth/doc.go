// Package auth holds the credential primitives used by the service layer:
// HMAC-signed bearer tokens and bcrypt password hashing.
//
// A bearer token is only half of authentication. The service layer also
// checks that the verified token is still on record for the user it names.
package auth
