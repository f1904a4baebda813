// Package folio provides a client for the FOLIO library services platform.
//
// FOLIO exposes its functionality as a set of REST modules behind the Okapi
// gateway, addressed per tenant and authenticated with short-lived session
// tokens. This package implements the session lifecycle, the generic HTTP
// verbs, and a lazy pagination iterator, plus thin convenience wrappers for
// users, inventory and circulation.
//
// # Architecture
//
// The package is organized into two layers:
//
//   - Session management: login, token refresh before expiry, transparent
//     re-login after expiry, best-effort logout on Close
//   - Transport: generic Get/Post/Put/Delete over one persistent connection,
//     and Iter for paginated result sets
//
// # Usage
//
// Open a session with the tenant credentials, defer Close, and call verbs
// or wrappers:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := folio.Open(ctx,
//		"https://folio.example.edu", "diku", "admin", "secret",
//		logger,
//		folio.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	users, err := client.Users(ctx, "active==true")
//
// Large result sets should be streamed instead of collected:
//
//	it := client.Iter(ctx, "/inventory/items", "items", "", 0)
//	for it.Next() {
//		var item folio.Item
//		if err := it.Decode(&item); err != nil {
//			return err
//		}
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
//
// # Sessions and tokens
//
// A Client is bound to one logical session: the token pair obtained at Open
// is rotated through the refresh endpoint shortly before it expires, and a
// full re-login happens only when the token has already lapsed, so the
// password is transmitted as rarely as possible. A Client is not safe for
// concurrent use from multiple goroutines without external locking.
//
// # Error handling
//
// Failures surface as typed errors:
//
//   - ErrUnauthorized: bad credentials or an unrecoverably expired session
//   - ErrNotFound: the addressed resource does not exist (404)
//   - ErrClosed: the client was used after Close
//   - APIError: any other non-2xx answer, carrying status and body
//
// APIError unwraps to the matching sentinel, so classification works with
// the standard errors package:
//
//	if errors.Is(err, folio.ErrNotFound) {
//		// handle missing record
//	}
//
// Queries use CQL, the Contextual Query Language accepted by the platform's
// search endpoints; the client passes query strings through verbatim and
// performs no validation of their syntax.
package folio
