package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// familyParentIDs returns the ids of all active parents in the family,
// read inside the caller's transaction.
func familyParentIDs(c *gin.Context, tx pgx.Tx, familyID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := tx.Query(c.Request.Context(),
		"SELECT id FROM users WHERE family_id = $1 AND is_parent = true AND is_active = true",
		familyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
