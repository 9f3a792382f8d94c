package tasks

const taskColumns = `id, user_id, project_id, title, description, status, priority, done, due_date, created_at, updated_at`

const (
	queryCreate = `
		INSERT INTO tasks (user_id, project_id, title, description, status, priority, done, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns

	queryFindByID = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`

	// NULL filter arguments match every row
	queryList = `
		SELECT t.id, t.user_id, t.project_id, t.title, t.description, t.status, t.priority,
		       t.done, t.due_date, t.created_at, t.updated_at,
		       p.id, p.name, p.status
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id AND p.user_id = t.user_id
		WHERE t.user_id = $1
		  AND ($2::uuid IS NULL OR t.project_id = $2::uuid)
		  AND ($3::text IS NULL OR t.status = $3::text)
		  AND ($4::text IS NULL OR t.priority = $4::text)
		ORDER BY t.created_at DESC
	`

	queryListByProject = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		  AND project_id = $2
		  AND ($3::boolean IS NULL OR done = $3::boolean)
		ORDER BY created_at DESC
	`

	queryUpdate = `
		UPDATE tasks
		SET title = $3,
		    description = $4,
		    status = $5,
		    priority = $6,
		    done = $7,
		    due_date = $8,
		    project_id = $9,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	querySetProject = `
		UPDATE tasks
		SET project_id = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	queryDelete = `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	queryCountCreatedSince = `
		SELECT COUNT(*)
		FROM tasks
		WHERE user_id = $1 AND created_at >= $2
	`

	queryCompletionStats = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE done)
		FROM tasks
		WHERE user_id = $1
	`
)
