package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const itemColumns = `id, batch_id, source_path, display_title, status, output_path,
	error_message, progress_percent, progress_message, created_at, updated_at`

// Add inserts a new pending item for the given batch.
func (s *Store) Add(ctx context.Context, batchID, sourcePath string) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		BatchID:      batchID,
		SourcePath:   sourcePath,
		DisplayTitle: InferTitle(sourcePath),
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO batch_items (batch_id, source_path, display_title, status,
			output_path, error_message, progress_percent, progress_message,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.BatchID, item.SourcePath, item.DisplayTitle, string(item.Status),
		item.OutputPath, item.ErrorMessage, item.ProgressPercent, item.ProgressMessage,
		item.CreatedAt.Format(time.RFC3339Nano), item.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("add ledger item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add ledger item: %w", err)
	}
	item.ID = id
	return item, nil
}

// Update writes the item's mutable fields back to the ledger.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item.ID == 0 {
		return fmt.Errorf("update ledger item: item has no ID")
	}
	item.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE batch_items SET status = ?, output_path = ?, error_message = ?,
			progress_percent = ?, progress_message = ?, updated_at = ?
		WHERE id = ?`,
		string(item.Status), item.OutputPath, item.ErrorMessage,
		item.ProgressPercent, item.ProgressMessage,
		item.UpdatedAt.Format(time.RFC3339Nano), item.ID,
	)
	if err != nil {
		return fmt.Errorf("update ledger item %d: %w", item.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ledger item %d: %w", item.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update ledger item %d: not found", item.ID)
	}
	return nil
}

// GetByID returns one item, or nil when it does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM batch_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger item %d: %w", id, err)
	}
	return item, nil
}

// ItemsForBatch returns the batch's items in insertion order, optionally
// filtered to the given statuses.
func (s *Store) ItemsForBatch(ctx context.Context, batchID string, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM batch_items WHERE batch_id = ?`
	args := []any{batchID}
	if len(statuses) > 0 {
		query += ` AND status IN (`
		for i, status := range statuses {
			if i > 0 {
				query += `, `
			}
			query += `?`
			args = append(args, string(status))
		}
		query += `)`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list ledger items: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger items: %w", err)
	}
	return items, nil
}

// Summarize aggregates per-status counts for one batch.
func (s *Store) Summarize(ctx context.Context, batchID string) (Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM batch_items WHERE batch_id = ? GROUP BY status`,
		batchID)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize batch: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("summarize batch: %w", err)
		}
		summary.Total += count
		switch Status(status) {
		case StatusPending:
			summary.Pending = count
		case StatusConverting:
			summary.Converting = count
		case StatusCompleted:
			summary.Completed = count
		case StatusFailed:
			summary.Failed = count
		case StatusSkipped:
			summary.Skipped = count
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("summarize batch: %w", err)
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var status, createdAt, updatedAt string
	var displayTitle, outputPath, errorMessage, progressMessage sql.NullString
	if err := row.Scan(
		&item.ID, &item.BatchID, &item.SourcePath, &displayTitle, &status,
		&outputPath, &errorMessage, &item.ProgressPercent, &progressMessage,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	item.DisplayTitle = displayTitle.String
	item.OutputPath = outputPath.String
	item.ErrorMessage = errorMessage.String
	item.ProgressMessage = progressMessage.String

	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown item status %q", status)
	}
	item.Status = parsed

	var err error
	if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &item, nil
}
