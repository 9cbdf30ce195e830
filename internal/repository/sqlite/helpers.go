package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// parentToNull keeps the empty root path as a real value.
// Only the root itself has a NULL parent.
func parentToNull(parent string) sql.NullString {
	return sql.NullString{String: parent, Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals interface to nullable JSON string
// Returns empty NullString for nil or empty maps
func marshalToNull(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}

	// Handle empty maps - don't store "{}"
	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a new column to the nodes table:
// 1. Add field to nodeRow struct (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update nodeColumns constant - APPEND to end
// 4. Update toModel() to map new field to model.NodeData
// 5. Add the column in sqlite.go migrate()
// 6. Update relevant tests
//
// CRITICAL: Column order must match between:
// - nodeColumns constant
// - scanArgs() return slice

// ============================================================================
// Node Row Scanner
// ============================================================================

// nodeRow holds all columns from a node query for scanning
type nodeRow struct {
	Path           string
	Parent         sql.NullString
	Base           sql.NullString
	AttributesJSON sql.NullString
	PointersJSON   sql.NullString
	PositionX      sql.NullFloat64
	PositionY      sql.NullFloat64
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match nodeColumns order exactly:
// path, parent, base, attributes, pointers, position_x, position_y
func (r *nodeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Path,           // 1
		&r.Parent,         // 2
		&r.Base,           // 3
		&r.AttributesJSON, // 4
		&r.PointersJSON,   // 5
		&r.PositionX,      // 6
		&r.PositionY,      // 7
	}
}

// toModel converts the scanned row to a model.Node handle
func (r *nodeRow) toModel(children []string) (*model.Node, error) {
	data := model.NodeData{
		Path:     r.Path,
		Parent:   nullToString(r.Parent),
		Base:     nullToString(r.Base),
		Children: children,
	}

	if err := unmarshalJSONField(r.AttributesJSON, &data.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	if err := unmarshalJSONField(r.PointersJSON, &data.Pointers); err != nil {
		return nil, fmt.Errorf("unmarshal pointers: %w", err)
	}

	if r.PositionX.Valid && r.PositionY.Valid {
		data.Position = &domain.Position{X: r.PositionX.Float64, Y: r.PositionY.Float64}
	}

	return model.NewNode(data), nil
}

// nodeColumns returns the SELECT column list for node queries
const nodeColumns = `path, parent, base, attributes, pointers, position_x, position_y`
