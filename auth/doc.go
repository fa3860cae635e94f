// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth holds the role-based permission table and identity checks.

# Authorization

Every command handler asks the same predicate:

	if !auth.Allowed(role, auth.ActionCreatePoll) {
		return ErrPermissionDenied
	}

Teachers create polls and kick participants, students vote, and both may
chat and read participants and history. There is no identity verification
beyond the display name.

# Display Names

	name, err := auth.NormalizeName(raw)

Names are trimmed and must be 1-50 characters. They are not unique across
connections; the vote ledger keys on the name so a reconnecting student
keeps their vote status.

# IDs

	id := auth.NewID() // random UUID string
*/
package auth
