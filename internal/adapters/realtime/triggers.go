package realtime

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ChannelName is the NOTIFY channel the change triggers publish on.
const ChannelName = "table_changes"

// DefaultTables are the tables the services subscribe to.
var DefaultTables = []string{"attendance", "students", "notifications", "courses"}

// maxPayloadBytes keeps notifications under the 8000 byte NOTIFY limit.
// Larger rows are announced by id and re-read by the feed.
const maxPayloadBytes = 7900

// KeyColumns travel with truncated notifications so filtered subscriptions
// still match rows that cannot be re-read, such as deleted ones.
var KeyColumns = []string{"id", "code", "student_code", "course_code", "user_id", "school_id"}

const notifyFunction = `
CREATE OR REPLACE FUNCTION asistoya_notify_change() RETURNS trigger
LANGUAGE plpgsql AS $$
DECLARE
	payload text;
	rec jsonb;
BEGIN
	payload := json_build_object(
		'table', TG_TABLE_NAME,
		'type', TG_OP,
		'commit_time', now(),
		'record', CASE WHEN TG_OP = 'DELETE' THEN NULL ELSE row_to_json(NEW) END,
		'old_record', CASE WHEN TG_OP = 'INSERT' THEN NULL ELSE row_to_json(OLD) END
	)::text;
	IF octet_length(payload) > %d THEN
		IF TG_OP = 'DELETE' THEN
			rec := to_jsonb(OLD);
		ELSE
			rec := to_jsonb(NEW);
		END IF;
		payload := json_build_object(
			'table', TG_TABLE_NAME,
			'type', TG_OP,
			'commit_time', now(),
			'truncated', true,
			'id', rec->'id',
			'keys', (SELECT jsonb_object_agg(k, v) FROM jsonb_each(rec) AS e(k, v) WHERE k = ANY (%s))
		)::text;
	END IF;
	PERFORM pg_notify('%s', payload);
	RETURN NULL;
END
$$;`

// InstallTriggers creates the change notification function and attaches an
// AFTER row trigger to every table. It is idempotent.
func InstallTriggers(ctx context.Context, db *sql.DB, tables ...string) error {
	if len(tables) == 0 {
		tables = DefaultTables
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, notifyFunctionDDL()); err != nil {
		return fmt.Errorf("realtime: create notify function: %w", err)
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, triggerDDL(table)); err != nil {
			return fmt.Errorf("realtime: trigger on %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func notifyFunctionDDL() string {
	quoted := make([]string, len(KeyColumns))
	for i, c := range KeyColumns {
		quoted[i] = pq.QuoteLiteral(c)
	}
	keys := "ARRAY[" + strings.Join(quoted, ", ") + "]"
	return fmt.Sprintf(notifyFunction, maxPayloadBytes, keys, ChannelName)
}

func triggerDDL(table string) string {
	t := pq.QuoteIdentifier(table)
	return fmt.Sprintf(`DROP TRIGGER IF EXISTS asistoya_changes ON %s;
CREATE TRIGGER asistoya_changes AFTER INSERT OR UPDATE OR DELETE ON %s
	FOR EACH ROW EXECUTE FUNCTION asistoya_notify_change();`, t, t)
}
