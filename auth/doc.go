// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles voter tokens.

A voter token is an opaque string supplied by the client, used only to
deduplicate repeat votes. It is not an authenticated identity.

# Validation

	token, err := auth.NormalizeVoterToken(raw)

Whitespace is trimmed. An empty token is an anonymous vote. Tokens longer
than MaxVoterTokenLen bytes or containing control characters are rejected
with ErrInvalidToken.

# Hashing

When a salt is configured the ledger stores a digest instead of the raw
token:

	stored := auth.HashVoterToken(token, salt)

The digest is HMAC-SHA256, hex encoded. It is deterministic, so the
(round_id, voter_id) uniqueness constraint still applies.
*/
package auth
