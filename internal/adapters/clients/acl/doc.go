// Package acl is the anti-corruption layer between the remote quote API and
// the domain.
//
// Remote DTOs stay unexported here. Remote failures become domain errors:
//
//   - 404 or an empty result       -> [domain.ErrNotFound]
//   - 400 or 422                   -> [domain.ErrValidation]
//   - 429, 5xx, transport failures -> [domain.ErrUnavailable]
//
// Client-level failures such as [clients.ErrCircuitOpen] also map to
// [domain.ErrUnavailable]. Fallback substitution is not done here; the
// application layer decides what to serve when the source is down.
package acl
