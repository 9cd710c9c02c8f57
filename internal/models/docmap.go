package models

import "time"

// Helpers for decoding document-store maps. Firestore hands integers back as
// int64 and timestamps as time.Time; the in-memory store returns whatever
// was stored. These normalize both.

func AsString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func AsInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func AsBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func AsFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func AsTime(v interface{}) time.Time {
	t, _ := v.(time.Time)
	return t
}
