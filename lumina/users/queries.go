package users

const userColumns = `id, email, name, picture, password_hash, created_at, updated_at`

const (
	queryCreate = `
		INSERT INTO users (email, name, picture, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	queryFindByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	queryFindByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	// xmax = 0 only for freshly inserted rows
	queryFindOrCreateByEmail = `
		INSERT INTO users (email, name, picture)
		VALUES ($1, $2, $3)
		ON CONFLICT (email)
		DO UPDATE SET updated_at = users.updated_at
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted
	`

	queryUpdateProfile = `
		UPDATE users
		SET name = $1, picture = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	queryUpdatePassword = `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns
)
