// Package task owns the task repository: the Task model, its derived
// categories, the persistence Store (PostgreSQL via pgx, SQLite via GORM)
// and the Service that validates input and supplies the clock.
//
// Every query is scoped by owner. A task that does not exist and a task owned
// by someone else produce the same apperr.NotFoundError.
package task
