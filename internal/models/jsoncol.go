package models

import "encoding/json"

// JSON-backed list columns. The store keeps these as TEXT so all three
// dialects behave identically.

// EncodeInt64List serializes an id list for storage
func EncodeInt64List(ids []int64) string {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeInt64List parses a stored id list
func DecodeInt64List(raw string) []int64 {
	if raw == "" {
		return []int64{}
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []int64{}
	}
	return ids
}

// EncodeStringList serializes a date list for storage
func EncodeStringList(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeStringList parses a stored date list
func DecodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return []string{}
	}
	return values
}

// ContainsString reports whether list contains value
func ContainsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
