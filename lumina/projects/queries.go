package projects

const projectColumns = `id, user_id, name, description, status, created_at, updated_at`

const (
	queryCreate = `
		INSERT INTO projects (user_id, name, description, status)
		VALUES ($1, $2, $3, 'new')
		RETURNING ` + projectColumns

	queryFindByID = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1
	`

	queryListByUser = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	queryListTaskSummaries = `
		SELECT id, project_id, title, status, priority, done, due_date, created_at
		FROM tasks
		WHERE user_id = $1 AND project_id IS NOT NULL
		ORDER BY created_at DESC
	`

	// the status guard makes read-check-write atomic: a concurrent
	// transition changes the status and this matches zero rows
	queryUpdateIfStatus = `
		UPDATE projects
		SET name = $4, description = $5, status = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = $3
		RETURNING ` + projectColumns

	queryDelete = `
		DELETE FROM projects
		WHERE id = $1 AND user_id = $2
	`
)
