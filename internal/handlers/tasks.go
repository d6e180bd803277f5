package handlers

import (
	"fmt"
	"net/http"

	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/models"
	"github.com/familytask/familytask-go/internal/realtime"
	"github.com/familytask/familytask-go/internal/tasks"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListTasks returns the family's tasks, optionally filtered by assignee or
// derived status
func ListTasks(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	familyID, ok := middleware.GetAuthFamilyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := `
		SELECT id, family_id, assigned_to, created_by, title, description, points,
			completed, approved, completed_at, approved_at, created_at, updated_at
		FROM tasks
		WHERE family_id = $1
	`
	args := []interface{}{familyID}

	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		assigneeID, err := uuid.Parse(assignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to format"})
			return
		}
		args = append(args, assigneeID)
		query += fmt.Sprintf(" AND assigned_to = $%d", len(args))
	}

	switch tasks.Status(c.Query("status")) {
	case tasks.StatusPending:
		query += " AND completed = false AND approved = false"
	case tasks.StatusCompleted:
		query += " AND completed = true AND approved = false"
	case tasks.StatusApproved:
		query += " AND approved = true"
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	query += " ORDER BY created_at DESC"

	rows, err := db.Query(c.Request.Context(), query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query tasks", "details": err.Error()})
		return
	}
	defer rows.Close()

	taskList := []models.TaskResponse{}
	for rows.Next() {
		var task models.Task

		err := rows.Scan(
			&task.ID,
			&task.FamilyID,
			&task.AssignedTo,
			&task.CreatedBy,
			&task.Title,
			&task.Description,
			&task.Points,
			&task.Completed,
			&task.Approved,
			&task.CompletedAt,
			&task.ApprovedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse task data", "details": err.Error()})
			return
		}

		status := tasks.Derive(task.Completed, task.Approved)
		taskList = append(taskList, task.ToResponse(string(status)))
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": taskList,
		"count": len(taskList),
	})
}

// GetTask returns a single task by ID
func GetTask(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	familyID, ok := middleware.GetAuthFamilyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var task models.Task
	err = db.QueryRow(c.Request.Context(), `
		SELECT id, family_id, assigned_to, created_by, title, description, points,
			completed, approved, completed_at, approved_at, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND family_id = $2
	`, taskID, familyID).Scan(
		&task.ID,
		&task.FamilyID,
		&task.AssignedTo,
		&task.CreatedBy,
		&task.Title,
		&task.Description,
		&task.Points,
		&task.Completed,
		&task.Approved,
		&task.CompletedAt,
		&task.ApprovedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task", "details": err.Error()})
		}
		return
	}

	status := tasks.Derive(task.Completed, task.Approved)
	c.JSON(http.StatusOK, task.ToResponse(string(status)))
}

// CreateTask creates a new task (parent only)
func CreateTask(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	familyID, ok := middleware.GetAuthFamilyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, _ := middleware.GetAuthUserID(c)

	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.AssignedTo != nil {
		var exists bool
		err := db.QueryRow(c.Request.Context(),
			"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND family_id = $2)",
			*req.AssignedTo, familyID,
		).Scan(&exists)
		if err != nil || !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee not found in family"})
			return
		}
	}

	taskID := uuid.New()
	_, err := db.Exec(c.Request.Context(), `
		INSERT INTO tasks (
			id, family_id, assigned_to, created_by, title, description, points,
			completed, approved, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, false, false, NOW(), NOW())
	`, taskID, familyID, req.AssignedTo, userID, req.Title, req.Description, req.Points)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task_id": taskID,
		"status":  string(tasks.StatusPending),
	})
}

// UpdateTask edits task fields (parent only). Completion and approval flags
// are not editable here; they move through the transition endpoints.
func UpdateTask(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	familyID, ok := middleware.GetAuthFamilyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.Points != nil && *req.Points <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Points must be greater than zero"})
		return
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}

	if req.Title != nil {
		args = append(args, *req.Title)
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", len(args)))
	}
	if req.Description != nil {
		args = append(args, *req.Description)
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", len(args)))
	}
	if req.Points != nil {
		args = append(args, *req.Points)
		setClauses = append(setClauses, fmt.Sprintf("points = $%d", len(args)))
	}
	if req.AssignedTo != nil {
		args = append(args, *req.AssignedTo)
		setClauses = append(setClauses, fmt.Sprintf("assigned_to = $%d", len(args)))
	}

	args = append(args, taskID)
	idPos := len(args)
	args = append(args, familyID)

	query := "UPDATE tasks SET "
	for i, clause := range setClauses {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE id = $%d AND family_id = $%d", idPos, idPos+1)

	tag, err := db.Exec(c.Request.Context(), query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task", "details": err.Error()})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task_id": taskID,
	})
}

// DeleteTask removes a task (parent only). Deletion is always explicit;
// nothing in the system deletes tasks as a side effect.
func DeleteTask(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	familyID, ok := middleware.GetAuthFamilyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	tag, err := db.Exec(c.Request.Context(),
		"DELETE FROM tasks WHERE id = $1 AND family_id = $2", taskID, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task", "details": err.Error()})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"task_id": taskID,
	})
}

// CompleteTask marks a task completed (assignee only). Parents are
// notified; the pushes are best-effort and never fail the request.
func CompleteTask(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		familyID, ok := middleware.GetAuthFamilyID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		taskID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
			return
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback(c.Request.Context())

		var (
			assignedTo *uuid.UUID
			title      string
			completed  bool
			approved   bool
		)
		err = tx.QueryRow(c.Request.Context(), `
			SELECT assigned_to, title, completed, approved
			FROM tasks
			WHERE id = $1 AND family_id = $2
		`, taskID, familyID).Scan(&assignedTo, &title, &completed, &approved)

		if err != nil {
			if err.Error() == "no rows in result set" {
				c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task", "details": err.Error()})
			}
			return
		}

		if assignedTo == nil || *assignedTo != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the assignee can complete this task"})
			return
		}

		if !tasks.CanComplete(completed, approved) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Task cannot be completed in its current state",
				"status": string(tasks.Derive(completed, approved)),
			})
			return
		}

		_, err = tx.Exec(c.Request.Context(), `
			UPDATE tasks
			SET completed = true,
				completed_at = NOW(),
				updated_at = NOW()
			WHERE id = $1
		`, taskID)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task", "details": err.Error()})
			return
		}

		// Notify every parent in the family
		var displayName string
		if err := tx.QueryRow(c.Request.Context(),
			"SELECT display_name FROM users WHERE id = $1", userID,
		).Scan(&displayName); err != nil {
			displayName = "A family member"
		}

		parentIDs, err := familyParentIDs(c, tx, familyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query parents", "details": err.Error()})
			return
		}

		notifTitle := "Task completed"
		notifMessage := fmt.Sprintf("%s completed %q and is waiting for approval", displayName, title)

		notified := make([]uuid.UUID, 0, len(parentIDs))
		for _, parentID := range parentIDs {
			notifID := uuid.New()
			_, err = tx.Exec(c.Request.Context(), `
				INSERT INTO notifications (id, user_id, family_id, title, message, type, read, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
			`, notifID, parentID, familyID, notifTitle, notifMessage, models.NotificationTaskCompleted)

			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
				return
			}
			notified = append(notified, parentID)
		}

		if err = tx.Commit(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		// Live pushes happen after commit and are fire-and-forget
		for _, parentID := range notified {
			hub.Push(parentID, realtime.Event{
				Type:    models.NotificationTaskCompleted,
				ID:      taskID,
				Title:   notifTitle,
				Message: notifMessage,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Task completed successfully",
			"task_id": taskID,
			"status":  string(tasks.StatusCompleted),
		})
	}
}

// ApproveTask approves a completed task (parent only), which makes its
// points count toward the assignee's balance
func ApproveTask(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		familyID, ok := middleware.GetAuthFamilyID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		taskID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
			return
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback(c.Request.Context())

		var (
			assignedTo *uuid.UUID
			title      string
			pointsVal  int
			completed  bool
			approved   bool
		)
		err = tx.QueryRow(c.Request.Context(), `
			SELECT assigned_to, title, points, completed, approved
			FROM tasks
			WHERE id = $1 AND family_id = $2
		`, taskID, familyID).Scan(&assignedTo, &title, &pointsVal, &completed, &approved)

		if err != nil {
			if err.Error() == "no rows in result set" {
				c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task", "details": err.Error()})
			}
			return
		}

		if !tasks.CanApprove(completed, approved) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Task cannot be approved in its current state",
				"status": string(tasks.Derive(completed, approved)),
			})
			return
		}

		_, err = tx.Exec(c.Request.Context(), `
			UPDATE tasks
			SET approved = true,
				approved_at = NOW(),
				updated_at = NOW()
			WHERE id = $1
		`, taskID)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve task", "details": err.Error()})
			return
		}

		// The approval and the assignee's notification commit together;
		// the WebSocket push stays outside the transaction.
		notifTitle := "Task approved"
		notifMessage := fmt.Sprintf("%q was approved and you earned %d points", title, pointsVal)

		if assignedTo != nil {
			notifID := uuid.New()
			_, err = tx.Exec(c.Request.Context(), `
				INSERT INTO notifications (id, user_id, family_id, title, message, type, read, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
			`, notifID, *assignedTo, familyID, notifTitle, notifMessage, models.NotificationTaskApproved)

			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
				return
			}
		}

		if err = tx.Commit(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		if assignedTo != nil {
			hub.Push(*assignedTo, realtime.Event{
				Type:    models.NotificationTaskApproved,
				ID:      taskID,
				Title:   notifTitle,
				Message: notifMessage,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Task approved successfully",
			"task_id":       taskID,
			"status":        string(tasks.StatusApproved),
			"points_earned": pointsVal,
		})
	}
}

// ResetTask clears both lifecycle flags (parent only). Diagnostic escape
// hatch; not linked from any product surface.
func ResetTask(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	familyID, ok := middleware.GetAuthFamilyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	tag, err := db.Exec(c.Request.Context(), `
		UPDATE tasks
		SET completed = false,
			approved = false,
			completed_at = NULL,
			approved_at = NULL,
			updated_at = NOW()
		WHERE id = $1 AND family_id = $2
	`, taskID, familyID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset task", "details": err.Error()})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task reset successfully",
		"task_id": taskID,
		"status":  string(tasks.StatusPending),
	})
}
