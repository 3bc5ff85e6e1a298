// Package credential abstracts bearer credential acquisition behind a single
// Provider interface with three interchangeable strategies:
//
//   - StaticKeyProvider: wraps a pre-shared secret; always succeeds
//   - DelegatedProvider: exchanges the authenticated principal found on the
//     request context for a scoped access token
//   - InteractiveProvider: asks a client-side token broker, surfacing a
//     redirect to the broker's interactive URL when sign-in is required
//
// The strategy is selected once at construction time from configuration;
// call sites never branch on it. Providers are safe for concurrent use.
package credential
