package models

import "encoding/json"

// PageInfo describes one page of a backend collection
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PageCount returns ceil(total/limit). A non-positive limit yields 0.
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Normalize recomputes Pages from Total and Limit
func (p PageInfo) Normalize() PageInfo {
	p.Pages = PageCount(p.Total, p.Limit)
	return p
}

// Collection is the response envelope of every collection endpoint
type Collection[T any] struct {
	Data       []T      `json:"data"`
	Pagination PageInfo `json:"pagination"`
}

// collectionKeys are the keys a collection's rows may be returned under.
// Older endpoints name the array after the entity instead of "data".
var collectionKeys = []string{"data", "users", "contracts", "premiums", "claims"}

// UnmarshalJSON accepts the rows under "data" or an entity-named key
func (c *Collection[T]) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if p, ok := raw["pagination"]; ok {
		if err := json.Unmarshal(p, &c.Pagination); err != nil {
			return err
		}
	}
	for _, key := range collectionKeys {
		if d, ok := raw[key]; ok && string(d) != "null" {
			return json.Unmarshal(d, &c.Data)
		}
	}
	return nil
}
