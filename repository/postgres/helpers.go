package postgres

import "time"

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
