package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/thenoetrevino/listctl/internal/listservice"
	"github.com/thenoetrevino/listctl/internal/models"
)

// Service is a List Service backed by SQLite.
// Methods named in Unsupported answer "unknown_method", which lets callers
// exercise discovery against services that lack describe or items.info.
type Service struct {
	db          *sql.DB
	logger      *slog.Logger
	Unsupported map[string]bool

	mu    sync.Mutex
	calls map[string]int
}

// Open opens the database at path and returns a service over it
func Open(ctx context.Context, path string, logger *slog.Logger) (*Service, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:          db,
		logger:      logger,
		Unsupported: map[string]bool{},
		calls:       map[string]int{},
	}, nil
}

// Close closes the database
func (s *Service) Close() error {
	return s.db.Close()
}

// Calls returns how many times method was invoked
func (s *Service) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// TotalCalls returns the number of calls across all methods
func (s *Service) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// ResetCalls clears the call counters
func (s *Service) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = map[string]int{}
}

// ============================================================================
// SEEDING
// ============================================================================

// CreateList creates a list. A nil schema makes describe unavailable for it.
func (s *Service) CreateList(ctx context.Context, listID string, sch *models.Schema) error {
	var schemaJSON any
	if sch != nil {
		data, err := json.Marshal(sch.Columns)
		if err != nil {
			return err
		}
		schemaJSON = string(data)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lists (id, schema_json) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET schema_json = excluded.schema_json",
		listID, schemaJSON)
	return err
}

// NewItemID returns a fresh item id in the service's "Rec..." shape
func NewItemID() string {
	return "Rec" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// AddItem appends an item to its list, assigning an id when it has none
func (s *Service) AddItem(ctx context.Context, item models.Item) error {
	if item.ID == "" {
		item.ID = NewItemID()
	}
	fields, err := json.Marshal(nonNilFields(item.Fields))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (id, list_id, position, fields_json)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM items WHERE list_id = ?), ?)`,
		item.ID, item.ListID, item.ListID, string(fields))
	return err
}

// AddUser registers a user for lookups
func (s *Service) AddUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, display_name, email) VALUES (?, ?, ?, ?)",
		u.ID, u.Name, u.DisplayName, u.Email)
	return err
}

// ============================================================================
// CLIENT CONTRACT
// ============================================================================

// Call dispatches a service method
func (s *Service) Call(ctx context.Context, method string, params map[string]any) (map[string]any, error) {
	s.record(method)

	if s.Unsupported[method] {
		return nil, &listservice.APIError{Method: method, Code: "unknown_method"}
	}

	listID, _ := params["list_id"].(string)
	switch method {
	case listservice.MethodDescribe:
		return s.describe(ctx, listID)
	case listservice.MethodItemsList:
		return s.listItems(ctx, listID, intParam(params, "limit", 100), stringParam(params, "cursor"))
	case listservice.MethodItemsInfo:
		return s.itemInfo(ctx, listID, stringParam(params, "id"))
	case listservice.MethodItemUpdate:
		return s.updateCells(ctx, listID, params["cells"])
	case listservice.MethodUsersList:
		return s.usersList(ctx)
	default:
		return nil, &listservice.APIError{Method: method, Code: "unknown_method"}
	}
}

// ListItems lists up to limit items through items.list
func (s *Service) ListItems(ctx context.Context, listID string, limit int) ([]models.Item, error) {
	resp, err := s.Call(ctx, listservice.MethodItemsList, map[string]any{"list_id": listID, "limit": limit})
	if err != nil {
		return nil, err
	}
	var items []models.Item
	if err := listservice.Decode(resp["items"], &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LookupUsers returns every registered user as a candidate
func (s *Service) LookupUsers(ctx context.Context, query string) ([]models.User, error) {
	s.record(listservice.MethodUsersList)
	if s.Unsupported[listservice.MethodUsersList] {
		return nil, &listservice.APIError{Method: listservice.MethodUsersList, Code: "unknown_method"}
	}
	return s.users(ctx)
}

// ============================================================================
// METHOD IMPLEMENTATIONS
// ============================================================================

func (s *Service) describe(ctx context.Context, listID string) (map[string]any, error) {
	columns, err := s.schemaColumns(ctx, listservice.MethodDescribe, listID)
	if err != nil {
		return nil, err
	}
	if columns == nil {
		return nil, &listservice.APIError{Method: listservice.MethodDescribe, Code: "not_supported"}
	}
	return map[string]any{"ok": true, "list_id": listID, "schema": columns}, nil
}

func (s *Service) listItems(ctx context.Context, listID string, limit int, cursor string) (map[string]any, error) {
	if _, err := s.schemaColumns(ctx, listservice.MethodItemsList, listID); err != nil {
		return nil, err
	}

	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, &listservice.APIError{Method: listservice.MethodItemsList, Code: "invalid_cursor"}
		}
		offset = n
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, fields_json FROM items WHERE list_id = ? ORDER BY position LIMIT ? OFFSET ?",
		listID, limit+1, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("error closing rows", "error", err)
		}
	}()

	items := []any{}
	more := false
	for rows.Next() {
		if len(items) == limit {
			more = true
			break
		}
		var id, fieldsJSON string
		if err := rows.Scan(&id, &fieldsJSON); err != nil {
			return nil, err
		}
		items = append(items, itemPayload(id, listID, fieldsJSON))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resp := map[string]any{"ok": true, "items": items}
	if more {
		resp["response_metadata"] = map[string]any{"next_cursor": strconv.Itoa(offset + limit)}
	}
	return resp, nil
}

func (s *Service) itemInfo(ctx context.Context, listID, itemID string) (map[string]any, error) {
	columns, err := s.schemaColumns(ctx, listservice.MethodItemsInfo, listID)
	if err != nil {
		return nil, err
	}

	var fieldsJSON string
	err = s.db.QueryRowContext(ctx,
		"SELECT fields_json FROM items WHERE id = ? AND list_id = ?", itemID, listID).Scan(&fieldsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &listservice.APIError{Method: listservice.MethodItemsInfo, Code: "item_not_found"}
	}
	if err != nil {
		return nil, err
	}

	resp := map[string]any{"ok": true, "item": itemPayload(itemID, listID, fieldsJSON)}
	if columns != nil {
		resp["list"] = map[string]any{
			"id":            listID,
			"list_metadata": map[string]any{"schema": columns},
		}
	}
	return resp, nil
}

func (s *Service) updateCells(ctx context.Context, listID string, rawCells any) (map[string]any, error) {
	var cells []struct {
		RowID string `json:"row_id"`
	}
	if err := listservice.Decode(rawCells, &cells); err != nil {
		return nil, &listservice.APIError{Method: listservice.MethodItemUpdate, Code: "invalid_arguments"}
	}
	var fields []models.Field
	if err := listservice.Decode(rawCells, &fields); err != nil {
		return nil, &listservice.APIError{Method: listservice.MethodItemUpdate, Code: "invalid_arguments"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.logger.Error("failed to rollback transaction", "error", err)
		}
	}()

	for i, cell := range cells {
		var fieldsJSON string
		err := tx.QueryRowContext(ctx,
			"SELECT fields_json FROM items WHERE id = ? AND list_id = ?", cell.RowID, listID).Scan(&fieldsJSON)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &listservice.APIError{Method: listservice.MethodItemUpdate, Code: "item_not_found"}
		}
		if err != nil {
			return nil, err
		}

		var existing []models.Field
		if err := json.Unmarshal([]byte(fieldsJSON), &existing); err != nil {
			return nil, fmt.Errorf("corrupt item %s: %w", cell.RowID, err)
		}
		updated, err := json.Marshal(upsertField(existing, fields[i]))
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE items SET fields_json = ? WHERE id = ?", string(updated), cell.RowID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return map[string]any{"ok": true}, nil
}

func (s *Service) usersList(ctx context.Context) (map[string]any, error) {
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]any, len(users))
	for i, u := range users {
		members[i] = map[string]any{
			"id":   u.ID,
			"name": u.Name,
			"profile": map[string]any{
				"display_name": u.DisplayName,
				"real_name":    u.Name,
				"email":        u.Email,
			},
		}
	}
	return map[string]any{"ok": true, "members": members}, nil
}

func (s *Service) users(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, display_name, email FROM users ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("error closing rows", "error", err)
		}
	}()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.DisplayName, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// schemaColumns returns the stored column list as decoded JSON (nil when the
// list has no schema) or list_not_found
func (s *Service) schemaColumns(ctx context.Context, method, listID string) ([]any, error) {
	var schemaJSON sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT schema_json FROM lists WHERE id = ?", listID).Scan(&schemaJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &listservice.APIError{Method: method, Code: "list_not_found"}
	}
	if err != nil {
		return nil, err
	}
	if !schemaJSON.Valid {
		return nil, nil
	}

	var columns []any
	if err := json.Unmarshal([]byte(schemaJSON.String), &columns); err != nil {
		return nil, fmt.Errorf("corrupt schema for list %s: %w", listID, err)
	}
	return columns, nil
}

func (s *Service) record(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

// ============================================================================
// HELPERS
// ============================================================================

func itemPayload(id, listID, fieldsJSON string) map[string]any {
	var fields []any
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil || fields == nil {
		fields = []any{}
	}
	return map[string]any{"id": id, "list_id": listID, "fields": fields}
}

// upsertField replaces the field bound to the same column, or appends it
func upsertField(fields []models.Field, f models.Field) []models.Field {
	for i, existing := range fields {
		if (f.ColumnID != "" && existing.ColumnID == f.ColumnID) ||
			(f.ColumnID == "" && f.Key != "" && existing.Key == f.Key) {
			if f.Key == "" {
				f.Key = existing.Key
			}
			fields[i] = f
			return fields
		}
	}
	return append(fields, f)
}

func nonNilFields(fields []models.Field) []models.Field {
	if fields == nil {
		return []models.Field{}
	}
	return fields
}

func stringParam(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return fallback
}
