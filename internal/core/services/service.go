// Package services holds the domain operations over the remote store. Every
// service is a stateless value built from its injected ports; nothing is
// mutated after construction.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/asistoya/shared-services/internal/core/apperr"
)

// Table names of the remote store.
const (
	tableAttendance    = "attendance"
	tableStudents      = "students"
	tableCourses       = "courses"
	tableTeachers      = "teachers"
	tableNotifications = "notifications"
	tableDeviceTokens  = "device_tokens"
	tableUsers         = "users"
)

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// required returns a validation error for field when value is blank.
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validation(field, field+" is required")
	}
	return nil
}

// firstMissing checks fields in order and reports the first blank one.
func firstMissing(fields ...[2]string) error {
	for _, f := range fields {
		if err := required(f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

func decodeRow[R any](raw json.RawMessage) (R, error) {
	var row R
	if err := json.Unmarshal(raw, &row); err != nil {
		return row, fmt.Errorf("decode row: %w", err)
	}
	return row, nil
}

// mapRows decodes raws and maps each row to its entity. The result is never
// nil.
func mapRows[R, E any](raws []json.RawMessage, now time.Time, fn func(R, time.Time) E) ([]E, error) {
	out := make([]E, 0, len(raws))
	for _, raw := range raws {
		row, err := decodeRow[R](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, fn(row, now))
	}
	return out, nil
}

func mapRow[R, E any](raw json.RawMessage, now time.Time, fn func(R, time.Time) E) (*E, error) {
	row, err := decodeRow[R](raw)
	if err != nil {
		return nil, err
	}
	e := fn(row, now)
	return &e, nil
}

// fail classifies err, logs it under tag and returns it.
func fail(tag string, err error, extra ...any) error {
	err = apperr.Classify(err)
	apperr.Log(tag, err, extra...)
	return err
}

// detached keeps ctx's values for work that outlives the subscribing call.
func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func likeTerm(term string) string {
	return "%" + term + "%"
}
