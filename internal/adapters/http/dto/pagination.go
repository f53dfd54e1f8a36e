package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// cursorFieldOffset marks cursors that encode a position in a list.
const cursorFieldOffset = "offset"

// Cursor errors.
var (
	// ErrInvalidCursor is returned when cursor decoding fails.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor indicates no cursor was provided (first page request).
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest represents pagination parameters from the request.
type PaginationRequest struct {
	// Cursor is an opaque string from a previous response's NextCursor.
	Cursor string `form:"cursor" json:"cursor"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	if p.Limit > MaxLimit {
		return MaxLimit
	}

	return p.Limit
}

// DecodeCursor decodes the cursor string into CursorData.
// Returns ErrNoCursor if cursor is empty (first page request).
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	return DecodeCursor(p.Cursor)
}

// Offset returns the list position the cursor points at; zero without a cursor.
func (p *PaginationRequest) Offset() (int, error) {
	data, err := p.DecodeCursor()
	if errors.Is(err, ErrNoCursor) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	if data.Field != cursorFieldOffset {
		return 0, ErrInvalidCursor
	}

	offset, err := strconv.Atoi(data.Value)
	if err != nil || offset < 0 {
		return 0, ErrInvalidCursor
	}

	return offset, nil
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the array of items for this page.
	Items []T `json:"items"`

	// NextCursor is the cursor to use for the next page.
	// Empty if there are no more items.
	NextCursor string `json:"nextCursor,omitempty"`

	// HasMore indicates whether there are more items after this page.
	HasMore bool `json:"hasMore"`

	// Total is the length of the whole list.
	Total int `json:"total"`
}

// PageOf slices one page out of a fully loaded list. The next cursor
// records the position after the page and the id of its last item, so a
// list that shifted between requests is detectable by the caller.
func PageOf[T any](all []T, offset, limit int, id func(T) string) *PaginatedResponse[T] {
	if offset > len(all) {
		offset = len(all)
	}

	end := min(offset+limit, len(all))
	items := all[offset:end]

	resp := &PaginatedResponse[T]{
		Items:   items,
		HasMore: end < len(all),
		Total:   len(all),
	}

	if resp.HasMore && len(items) > 0 {
		resp.NextCursor = EncodeCursor(NewCursor(cursorFieldOffset, strconv.Itoa(end), id(items[len(items)-1])))
	}

	return resp
}

// CursorData contains the data encoded in a pagination cursor.
type CursorData struct {
	// Field names what Value holds.
	Field string `json:"f"`

	// Value is the cursor position.
	Value string `json:"v"`

	// ID identifies the item just before the position.
	ID string `json:"id"`
}

// EncodeCursor encodes cursor data to a base64 string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to cursor data.
// Returns ErrNoCursor if the encoded string is empty.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	jsonBytes, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData

	err = json.Unmarshal(jsonBytes, &data)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

// NewCursor creates a new cursor from field, value, and ID.
func NewCursor(field, value, id string) *CursorData {
	return &CursorData{
		Field: field,
		Value: value,
		ID:    id,
	}
}
