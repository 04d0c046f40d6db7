package store

const (
	createAccount = `INSERT INTO accounts (username, email, password_hash, role, active)
    VALUES ($1, $2, $3, $4, TRUE)
    RETURNING account_id, username, email, password_hash, role, active, failed_attempts, last_login, password_reset_required, created_at;`

	findAccountByUsername = `SELECT account_id, username, email, password_hash, role, active, failed_attempts, last_login, password_reset_required, created_at
    FROM accounts
    WHERE lower(username) = lower($1);`

	findAccountByID = `SELECT account_id, username, email, password_hash, role, active, failed_attempts, last_login, password_reset_required, created_at
    FROM accounts
    WHERE account_id = $1;`

	// Uniqueness probes are case-insensitive and exclude the account
	// being updated (pass 0 when creating).
	usernameExists = `SELECT EXISTS (
		SELECT 1 FROM accounts
		WHERE lower(username) = lower($1) AND account_id <> $2
	);`
	emailExists = `SELECT EXISTS (
		SELECT 1 FROM accounts
		WHERE lower(email) = lower($1) AND account_id <> $2
	);`

	// recordFailedAttempt is the single atomic read-modify-write that
	// both increments the failure counter and flips the account inactive
	// at the threshold. The WHERE active = TRUE guard keeps already
	// locked accounts from counting past the ceiling.
	recordFailedAttempt = `UPDATE accounts
		SET failed_attempts = failed_attempts + 1,
		    active = (failed_attempts + 1 < $2)
		WHERE account_id = $1 AND active = TRUE
		RETURNING failed_attempts, active;`

	recordSuccessfulLogin = `UPDATE accounts
		SET failed_attempts = 0, last_login = NOW()
		WHERE account_id = $1 AND active = TRUE;`

	reactivateAccount = `UPDATE accounts
		SET active = TRUE, failed_attempts = 0
		WHERE account_id = $1;`

	deactivateAccount = `UPDATE accounts
		SET active = FALSE
		WHERE account_id = $1;`

	updateAccountPassword = `UPDATE accounts
		SET password_hash = $2, password_reset_required = FALSE
		WHERE account_id = $1;`

	updateAccountRole = `UPDATE accounts
		SET role = $2
		WHERE account_id = $1;`

	createSession = `INSERT INTO sessions (token, account_id, created_at, expires_at, last_accessed_at)
	VALUES ($1, $2, $3, $4, $5);`

	// findSessionWithAccount joins in the owner so Validate can return a
	// denormalized account summary without a second round-trip.
	findSessionWithAccount = `SELECT s.token, s.account_id, s.created_at, s.expires_at, s.last_accessed_at,
	       a.username, a.email, a.role, a.active
	FROM sessions s
	JOIN accounts a ON a.account_id = s.account_id
	WHERE s.token = $1;`

	touchSession = `UPDATE sessions
		SET last_accessed_at = $2
		WHERE token = $1;`

	extendSession = `UPDATE sessions
		SET expires_at = $2, last_accessed_at = $3
		WHERE token = $1
		RETURNING account_id, created_at;`

	deleteSessionByToken = `DELETE FROM sessions
		WHERE token = $1;`

	deleteSessionsByAccount = `DELETE FROM sessions
		WHERE account_id = $1;`

	deleteSessionsByAccountExcept = `DELETE FROM sessions
		WHERE account_id = $1 AND token <> $2;`

	deleteExpiredSessions = `DELETE FROM sessions
		WHERE expires_at <= $1;`

	createMember = `INSERT INTO members (first_name, last_name, email, phone, joined_at, notes)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING member_id, first_name, last_name, email, phone, joined_at, notes, created_at;`

	findMemberByID = `SELECT member_id, first_name, last_name, email, phone, joined_at, notes, created_at
	FROM members
	WHERE member_id = $1;`

	listMembers = `SELECT member_id, first_name, last_name, email, phone, joined_at, notes, created_at
	FROM members
	ORDER BY last_name, first_name;`

	deleteMember = `DELETE FROM members
		WHERE member_id = $1;`
)
