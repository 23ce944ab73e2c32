// Package common contains shared constants and sentinel errors used across
// gophsignup components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// VerificationCodeLength is the number of decimal digits in an issued
// verification code.
const VerificationCodeLength = 6
