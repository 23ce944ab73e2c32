// Package cli provides the interactive gophsignup command-line client.
//
// It wires configuration, the local session database, the account service
// and a read-eval-print loop. Commands:
//
//   - register: create an account (a verification code is sent out of band)
//   - login: authenticate by phone and password
//   - verify / resend: confirm the account with the code, or get a new one
//   - me / logout: show or forget the current session
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
